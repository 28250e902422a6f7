package mdexport_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-mdexport"
)

// Example exports a themed DOCX. DOCX export never starts a browser.
func Example() {
	conv, err := mdexport.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	doc, err := conv.DOCX(context.Background(), mdexport.Input{
		Markdown: "# Hello World\n\nThis is a **test**.",
		Theme:    "nature",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	// DOCX files are zip packages.
	fmt.Println(bytes.HasPrefix(doc, []byte("PK")))
	// Output: true
}

// ExampleConverter_Blocks inspects the block model behind the DOCX export.
func ExampleConverter_Blocks() {
	conv, err := mdexport.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	blocks, err := conv.Blocks(context.Background(), mdexport.Input{
		Markdown: "# Plan\n>>Check the figures\nbefore Friday<<\n| Item | Cost |\n|---|---|\n| Paper | 4 |\n---",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	for _, b := range blocks {
		fmt.Println(b.Kind())
	}
	// Output:
	// heading
	// annotation
	// table
	// rule
}

// ExampleConverter_Preview renders the dark HTML preview.
func ExampleConverter_Preview() {
	conv, err := mdexport.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	page, err := conv.Preview(context.Background(), mdexport.Input{
		Markdown: "# Notes\n\n>>Remember this<<",
		Theme:    "vintage",
		Dark:     true,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(strings.Contains(string(page), `class="md-note"`))
	// Output: true
}

// ExampleParseFormat validates a user-supplied format name.
func ExampleParseFormat() {
	f, err := mdexport.ParseFormat("PDF")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(f, f.Extension())
	// Output: pdf .pdf
}
