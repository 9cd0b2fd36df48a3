package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gabrielrenderos/figq/internal/config"
	"github.com/gabrielrenderos/figq/internal/ui"
)

var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "List saved queries from the project config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQueriesList()
	},
}

var queriesRunCmd = &cobra.Command{
	Use:   "run <name>",
	Short: "Run a saved query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd, "", args[0])
	},
}

var queriesInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter figq.yaml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQueriesInit()
	},
}

type savedQueryView struct {
	Name        string `json:"name"`
	Query       string `json:"query"`
	Page        string `json:"page,omitempty"`
	Description string `json:"description,omitempty"`
}

func runQueriesList() error {
	project := getProject()
	if project == nil {
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"queries": []savedQueryView{}}, &Meta{Count: 0})
			return nil
		}
		fmt.Println(ui.Infof("No figq.yaml found"))
		fmt.Println(ui.Hint("Create one with 'figq queries init'."))
		return nil
	}

	names := project.QueryNames()
	views := make([]savedQueryView, 0, len(names))
	for _, name := range names {
		q, ok := project.LookupQuery(name)
		if !ok {
			continue
		}
		views = append(views, savedQueryView{
			Name:        name,
			Query:       q.Query,
			Page:        q.Page,
			Description: q.Description,
		})
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"project": project.Dir,
			"queries": views,
		}, &Meta{Count: len(views)})
		return nil
	}

	if len(views) == 0 {
		fmt.Println(ui.Infof("No saved queries in %s", config.ProjectFileName))
		fmt.Println(ui.Hint("Project config: " + project.Dir))
		return nil
	}

	fmt.Println(ui.Header("Saved queries ") + ui.Count(len(views), "query", "queries"))
	fmt.Println(ui.Hint("From " + project.Dir))
	fmt.Println()

	nameWidth := 0
	for _, v := range views {
		if len(v.Name) > nameWidth {
			nameWidth = len(v.Name)
		}
	}
	for _, v := range views {
		fmt.Printf("  %-*s  %s\n", nameWidth, v.Name, ui.NodePath(v.Query))
		if v.Page != "" {
			fmt.Printf("  %-*s  %s\n", nameWidth, "", ui.Hint("page: "+v.Page))
		}
		if v.Description != "" {
			fmt.Printf("  %-*s  %s\n", nameWidth, "", ui.Hint(v.Description))
		}
	}
	if !quiet {
		fmt.Println()
		fmt.Println(ui.Hint("Run one with 'figq queries run <name>'."))
	}
	return nil
}

func runQueriesInit() error {
	dir, err := os.Getwd()
	if err != nil {
		return handleError(ErrInternal, err, "")
	}
	created, err := config.CreateDefaultProjectConfig(dir)
	if err != nil {
		return handleError(ErrFileWriteError, err, "")
	}

	path := filepath.Join(dir, config.ProjectFileName)
	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"path": path, "created": created}, nil)
		return nil
	}
	if !created {
		fmt.Println(ui.Infof("%s already exists", path))
		return nil
	}
	fmt.Println(ui.Successf("Created %s", path))
	fmt.Println(ui.Hint("Set the scene file and add saved queries, then run 'figq queries'."))
	return nil
}

func init() {
	queriesCmd.AddCommand(queriesRunCmd)
	queriesCmd.AddCommand(queriesInitCmd)

	rootCmd.AddCommand(queriesCmd)
}
