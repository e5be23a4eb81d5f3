package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/scribahq/scriba/service"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/option"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: dumpstructure <document-id>")
		os.Exit(2)
	}
	documentID := os.Args[1]

	docsRepository, err := docs.NewService(context.TODO(), option.WithCredentialsJSON([]byte(os.Getenv("SCRIBA_GOOGLEAPIS_KEY"))))
	if err != nil {
		panic(fmt.Sprintf("failed to init docs: %v", err))
	}

	docsService := service.NewDocsService(service.NewDocsGateway(docsRepository), nil, nil)

	structure, err := docsService.ParseStructure(documentID, true)
	if err != nil {
		panic(fmt.Sprintf("failed to parse structure: %v", err))
	}

	fmt.Printf("%s (%s)\n", structure.Title, structure.DocumentID)
	fmt.Printf("length=%d elements=%d headers=%d footers=%d footnotes=%d\n",
		structure.TotalLength, len(structure.Elements), len(structure.HeaderIDs), len(structure.FooterIDs), structure.FootnoteCount)

	for _, tab := range structure.Tabs {
		fmt.Printf("tab %s%q (%s)\n", strings.Repeat("  ", tab.Level), tab.Title, tab.ID)
	}

	for i, element := range structure.Elements {
		switch {
		case element.Table != nil:
			fmt.Printf("[%d] %d-%d %s %dx%d\n", i, element.StartIndex, element.EndIndex, element.Kind, element.Table.Rows, element.Table.Columns)
		case element.Text != "":
			fmt.Printf("[%d] %d-%d %s %q\n", i, element.StartIndex, element.EndIndex, styleLabel(element.Kind, element.NamedStyle), preview(element.Text))
		default:
			fmt.Printf("[%d] %d-%d %s\n", i, element.StartIndex, element.EndIndex, element.Kind)
		}
	}

	complexity, err := docsService.Complexity(documentID)
	if err != nil {
		panic(fmt.Sprintf("failed to compute complexity: %v", err))
	}

	fmt.Printf("complexity: paragraphs=%d tables=%d cells=%d sectionBreaks=%d textLength=%d tabs=%d maxTableDepth=%d\n",
		complexity.Paragraphs, complexity.Tables, complexity.TableCells, complexity.SectionBreaks, complexity.TextLength, complexity.Tabs, complexity.MaxTableDepth)
}

func styleLabel(kind, namedStyle string) string {
	if namedStyle == "" || namedStyle == "NORMAL_TEXT" {
		return kind
	}
	return fmt.Sprintf("%s/%s", kind, namedStyle)
}

func preview(text string) string {
	text = strings.TrimRight(text, "\n")
	runes := []rune(text)
	if len(runes) <= 60 {
		return text
	}
	return string(runes[:60]) + "..."
}
