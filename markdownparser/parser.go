package markdownparser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/shibukawa/snapdomain/pattern"
	"github.com/shibukawa/snapdomain/preprocess"
)

// Sentinel errors
var (
	ErrInvalidFrontMatter     = fmt.Errorf("invalid front matter")
	ErrMissingRequiredSection = fmt.Errorf("missing required section")
)

// PatternDocument is a Markdown file holding pattern blocks
type PatternDocument struct {
	Title    string
	Metadata map[string]any
	Settings Settings
	Blocks   []Block
}

// Block is one fenced code block of pattern statements
type Block struct {
	Section   string // heading the block appears under, lowercased
	StartLine int    // line of the first statement inside the fence
	Lines     []pattern.Line
}

// Lines returns the prepared statements of every block in document order.
// Line numbers refer to the Markdown file.
func (d *PatternDocument) Lines() []pattern.Line {
	var lines []pattern.Line
	for _, b := range d.Blocks {
		lines = append(lines, b.Lines...)
	}

	return lines
}

// Languages accepted as the info string of a pattern block
var patternLanguages = map[string]bool{
	"domains":    true,
	"domain":     true,
	"pattern":    true,
	"patterns":   true,
	"snapdomain": true,
}

// Sections whose untagged code blocks are read as pattern blocks
var patternSections = map[string]bool{
	"domains":   true,
	"patterns":  true,
	"variables": true,
}

// Parse parses a Markdown pattern file. Code blocks tagged with one of the
// pattern languages, and untagged blocks under a Domains, Patterns or Variables
// heading, are concatenated into one pattern document.
func Parse(reader io.Reader) (*PatternDocument, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	source := strings.ReplaceAll(string(content), "\r\n", "\n")

	frontMatter, body, err := parseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	settings, err := parseSettings(frontMatter)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)

	bodyBytes := []byte(body)
	root := md.Parser().Parse(text.NewReader(bodyBytes))

	document := &PatternDocument{
		Metadata: frontMatter,
		Settings: settings,
	}

	if title, ok := frontMatter["title"].(string); ok {
		document.Title = title
	}

	lineOffset := countFrontMatterLines(source)
	section := ""

	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			headingText := extractTextFromHeadingNode(node, bodyBytes)
			if node.Level == 1 && document.Title == "" {
				document.Title = headingText
			}

			section = strings.ToLower(headingText)

			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			info := getCodeBlockInfo(node, bodyBytes)
			if !patternLanguages[info] && (info != "" || !patternSections[section]) {
				return ast.WalkSkipChildren, nil
			}

			document.Blocks = append(document.Blocks, extractBlock(node, bodyBytes, section, lineOffset))

			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if len(document.Blocks) == 0 {
		return nil, fmt.Errorf("%w: no ```domains code block found", ErrMissingRequiredSection)
	}

	return document, nil
}

// extractBlock prepares the statements of a fenced code block
func extractBlock(codeBlock *ast.FencedCodeBlock, content []byte, section string, lineOffset int) Block {
	block := Block{Section: section}

	segments := codeBlock.Lines()
	if segments.Len() == 0 {
		return block
	}

	block.StartLine = lineOffset + bytes.Count(content[:segments.At(0).Start], []byte("\n")) + 1

	var body strings.Builder
	for i := 0; i < segments.Len(); i++ {
		line := segments.At(i).Value(content)
		body.Write(line)

		if !bytes.HasSuffix(line, []byte("\n")) {
			body.WriteByte('\n')
		}
	}

	block.Lines = preprocess.OffsetLines(preprocess.PrepareDocument(body.String()), block.StartLine-1)

	return block
}

// extractTextFromHeadingNode extracts text content from a heading AST node
func extractTextFromHeadingNode(heading ast.Node, content []byte) string {
	var result strings.Builder

	_ = ast.Walk(heading, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			segment := node.Segment
			result.Write(content[segment.Start:segment.Stop])
		case *ast.String:
			result.Write(node.Value)
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(result.String())
}

// getCodeBlockInfo returns the lowercased language of a fenced code block
func getCodeBlockInfo(codeBlock *ast.FencedCodeBlock, content []byte) string {
	if codeBlock.Info == nil {
		return ""
	}

	segment := codeBlock.Info.Segment
	fields := strings.Fields(string(content[segment.Start:segment.Stop]))

	if len(fields) == 0 {
		return ""
	}

	return strings.ToLower(fields[0])
}
