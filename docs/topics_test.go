package docs

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	bashSetup    = "bash setup"
	bashRun      = "bash run"
	consoleCheck = "console check"
	bashCheck    = "bash check"
)

// TestTopics checks that the index lists exactly the embedded topics.
func TestTopics(t *testing.T) {
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var listed []string
	scanner := bufio.NewScanner(file)
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			listed = append(listed, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range listed {
		if _, err := Topic(topic); err != nil {
			t.Errorf("failed to get topic %q: %v", topic, err)
		}
	}
	for _, topic := range All() {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}
}

func TestTopics_Star(t *testing.T) {
	all, err := Topics("*")
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range All() {
		content, _ := Topic(topic)
		if !strings.Contains(all, content) {
			t.Errorf("Topics(\"*\") is missing topic %q", topic)
		}
	}
	if _, err := Topics("nope"); err == nil {
		t.Errorf("Topics(\"nope\") should fail")
	}
}

// TestCodeBlocks runs the examples of the documentation against a freshly
// built recon binary.
func TestCodeBlocks(t *testing.T) {
	if testing.Short() {
		t.Skip("builds and runs the recon binary")
	}
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}

	bin := buildRecon(t, t.TempDir())
	path := fmt.Sprintf("PATH=%s%c%s", filepath.Dir(bin), os.PathListSeparator, os.Getenv("PATH"))
	env := append(os.Environ(), path)

	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			r := blockRunner{env: env, tmpFolder: t.TempDir()}
			for _, block := range parseMarkdown(t, file) {
				r.runBlock(t, block)
			}
		})
	}
}

// HELPER

// Block represents a fenced code block in the markdown file.
type Block struct {
	Type    string
	Content string
	File    string
	Line    int
}

// buildRecon builds the recon executable in dir and returns its path.
func buildRecon(t *testing.T, dir string) string {
	t.Helper()
	output := filepath.Join(dir, "recon")
	buildCmd := exec.Command("go", "build", "-o", output, "../recon/")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build recon command: %v\n%s", err, out)
	}
	return output
}

// parseMarkdown returns the runnable fenced code blocks of a markdown file.
func parseMarkdown(t *testing.T, file string) []*Block {
	t.Helper()

	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}
	root := goldmark.DefaultParser().Parse(text.NewReader(content))

	var blocks []*Block
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		lang := string(fcb.Info.Segment.Value(content))
		switch lang {
		case bashCheck, bashSetup, bashRun, consoleCheck:
		default:
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			b.Write(line.Value(content))
		}
		blocks = append(blocks, &Block{
			Type:    lang,
			Content: b.String(),
			File:    file,
			Line:    bytes.Count(content[:fcb.Info.Segment.Start], []byte{'\n'}) + 1,
		})
		return ast.WalkContinue, nil
	})
	return blocks
}

// blockRunner holds the state shared by the blocks of a file.
type blockRunner struct {
	env            []string
	previousOutput string
	tmpFolder      string
}

func (r *blockRunner) runBlock(t *testing.T, block *Block) {
	t.Helper()

	if block.Type == consoleCheck {
		want := strings.TrimSpace(block.Content)
		got := strings.TrimSpace(r.previousOutput)
		if want != got {
			t.Errorf("%s:%d: output mismatch:\ngot:\n\n%s\n\nwant:\n\n%s\n\ngot :%q\nwant:%q\n", block.File, block.Line, got, want, got, want)
		}
		return
	}
	if block.Type == bashSetup {
		r.tmpFolder = t.TempDir()
	}

	cmd := exec.Command("bash", "-c", "set -e; "+block.Content)
	cmd.Dir = r.tmpFolder
	cmd.Env = r.env
	output, err := cmd.CombinedOutput()
	if block.Type == bashRun {
		r.previousOutput = string(output)
	}
	if err == nil {
		return
	}
	switch block.Type {
	case bashSetup, bashRun:
		t.Fatalf("%s:%d: %s failed: %v with output:\n%s\n", block.File, block.Line, block.Type, err, output)
	default:
		t.Errorf("%s:%d: %s failed: %v with output:\n%s\n", block.File, block.Line, block.Type, err, output)
	}
}
