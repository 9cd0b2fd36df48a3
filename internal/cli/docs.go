package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gabrielrenderos/figq/internal/docs"
	"github.com/gabrielrenderos/figq/internal/ui"
)

var (
	docsListFlag   bool
	docsSearchTerm string
	docsLimitFlag  int
)

var docsCmd = &cobra.Command{
	Use:   "docs [topic]",
	Short: "Browse the query-language documentation",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := ""
		if len(args) > 0 {
			topic = args[0]
		}
		switch {
		case docsSearchTerm != "":
			if topic != "" {
				return handleErrorMsg(ErrInvalidInput, "give a topic or --search, not both", "")
			}
			return runDocsSearch(docsSearchTerm)
		case topic != "":
			return runDocsTopic(topic)
		default:
			return runDocsList(docsListFlag)
		}
	},
}

type docsTopicView struct {
	Topic    string   `json:"topic"`
	Title    string   `json:"title"`
	Sections []string `json:"sections,omitempty"`
}

func runDocsList(withOutline bool) error {
	topics, err := docs.Topics()
	if err != nil {
		return handleError(ErrInternal, err, "")
	}

	views := make([]docsTopicView, 0, len(topics))
	for _, t := range topics {
		view := docsTopicView{Topic: t.ID, Title: t.Title}
		if withOutline {
			content, err := docs.Content(t)
			if err != nil {
				return handleError(ErrInternal, err, "")
			}
			for _, h := range docs.Outline([]byte(content)) {
				if h.Level <= 1 {
					continue
				}
				view.Sections = append(view.Sections, h.Text)
			}
		}
		views = append(views, view)
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"topics": views}, &Meta{Count: len(views)})
		return nil
	}

	fmt.Println(ui.Header("Documentation topics"))
	fmt.Println()
	idWidth := 0
	for _, v := range views {
		if len(v.Topic) > idWidth {
			idWidth = len(v.Topic)
		}
	}
	for _, v := range views {
		fmt.Printf("  %-*s  %s\n", idWidth, v.Topic, ui.Hint(v.Title))
		for _, s := range v.Sections {
			fmt.Printf("  %-*s    %s\n", idWidth, "", ui.Hint("- "+s))
		}
	}
	if !quiet {
		fmt.Println()
		fmt.Println(ui.Hint("Read one with 'figq docs <topic>'; a unique prefix works too."))
	}
	return nil
}

func runDocsTopic(name string) error {
	topic, err := docs.Lookup(name)
	if err != nil {
		if errors.Is(err, docs.ErrAmbiguousTopic) {
			return handleErrorMsg(ErrInvalidInput, err.Error(), "")
		}
		return handleErrorMsg(ErrTopicNotFound, err.Error(), "Run 'figq docs' to list topics")
	}
	content, err := docs.Content(topic)
	if err != nil {
		return handleError(ErrInternal, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"topic":   topic.ID,
			"title":   topic.Title,
			"content": content,
		}, nil)
		return nil
	}

	display := ui.NewDisplayContext()
	if !display.IsTTY {
		fmt.Print(content)
		if !strings.HasSuffix(content, "\n") {
			fmt.Println()
		}
		return nil
	}

	width := display.TermWidth
	if width > 100 {
		width = 100
	}
	rendered, err := ui.RenderMarkdown(content, width)
	if err != nil {
		// Styling failed; the raw markdown is still readable.
		fmt.Print(content)
		return nil
	}
	fmt.Print(rendered)
	return nil
}

func runDocsSearch(term string) error {
	matches, err := docs.Search(term, docsLimitFlag)
	if err != nil {
		return handleErrorMsg(ErrInvalidInput, err.Error(), "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"term":    term,
			"matches": matches,
		}, &Meta{Count: len(matches)})
		return nil
	}

	if len(matches) == 0 {
		fmt.Println(ui.Infof("No documentation matches for %q", term))
		return nil
	}

	fmt.Println(ui.Header("Documentation matches ") + ui.Count(len(matches), "match", "matches"))
	fmt.Println()
	for _, m := range matches {
		location := m.Topic
		if m.Heading != "" {
			location += " > " + m.Heading
		}
		fmt.Printf("  %s\n", ui.Header(location))
		fmt.Printf("    %s %s\n", m.Snippet, ui.Hint(fmt.Sprintf("(line %d)", m.Line)))
	}
	if !quiet {
		fmt.Println()
		fmt.Println(ui.Hint("Open a topic with 'figq docs <topic>'."))
	}
	return nil
}

func init() {
	docsCmd.Flags().BoolVar(&docsListFlag, "list", false, "List topics with their section outlines")
	docsCmd.Flags().StringVar(&docsSearchTerm, "search", "", "Find sections mentioning a term")
	docsCmd.Flags().IntVar(&docsLimitFlag, "limit", 20, "Search matches to show")

	rootCmd.AddCommand(docsCmd)
}
