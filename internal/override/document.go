// Package override reads the auxiliary override document and resolves
// field values from it with a fixed, ordered sequence of search tiers.
//
// The document is HCL:
//
//	common {
//	  entry {
//	    source {
//	      distance = 9.0
//	    }
//	  }
//	}
//
//	run "ENGINX00042.nxs" {
//	  entry "run042" {
//	    data {
//	      row_dimension = 2
//	    }
//	    detector "bank1" {
//	      layout = "panel"
//	    }
//	  }
//	}
//
// Top-level `run` blocks are keyed by the base name of the source file,
// `common` applies to every file. Blocks nested below an entry are field
// classes with an optional name label; attributes are the leaf values.
package override

import (
	"fmt"
	"path"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

const (
	blockCommon = "common"
	blockRun    = "run"
	blockEntry  = "entry"
)

var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: blockCommon},
		{Type: blockRun, LabelNames: []string{"file"}},
	},
}

// Document is a parsed override document. A nil *Document is valid and
// resolves every query as absent.
type Document struct {
	common *node
	runs   map[string]*node
	order  []string
}

// node is one block of the document: a field class with an optional name.
type node struct {
	class    string
	name     string
	children []*node
	attrs    map[string]cty.Value
}

// Load reads an override document from disk.
func Load(filename string) (*Document, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse override document %s: %w", filename, diags)
	}
	return decode(file, filename)
}

// Parse reads an override document from memory.
func Parse(src []byte, filename string) (*Document, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse override document %s: %w", filename, diags)
	}
	return decode(file, filename)
}

// Runs returns the file names that have a dedicated run section, in
// document order.
func (d *Document) Runs() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.order...)
}

// HasCommon reports whether the document has a common section.
func (d *Document) HasCommon() bool {
	return d != nil && d.common != nil
}

func decode(file *hcl.File, filename string) (*Document, error) {
	content, diags := file.Body.Content(rootSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode override document %s: %w", filename, diags)
	}

	doc := &Document{runs: make(map[string]*node)}

	common, commonDiags := findUniqueBlock(content.Blocks, blockCommon)
	diags = append(diags, commonDiags...)
	if common != nil {
		n, nDiags := decodeBlock(blockCommon, "", common.Body)
		diags = append(diags, nDiags...)
		doc.common = n
	}

	for _, block := range content.Blocks.OfType(blockRun) {
		key := baseName(block.Labels[0])
		if _, dup := doc.runs[key]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate run block",
				Detail:   fmt.Sprintf("A run block for %q is already defined.", key),
				Subject:  block.DefRange.Ptr(),
			})
			continue
		}
		n, nDiags := decodeBlock(blockRun, key, block.Body)
		diags = append(diags, nDiags...)
		doc.runs[key] = n
		doc.order = append(doc.order, key)
	}

	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode override document %s: %w", filename, diags)
	}
	return doc, nil
}

// findUniqueBlock returns the block of the given type, reporting an error
// diagnostic for every duplicate. It returns nil when no block matches.
func findUniqueBlock(blocks hcl.Blocks, blockType string) (*hcl.Block, hcl.Diagnostics) {
	var found *hcl.Block
	var diags hcl.Diagnostics

	for _, block := range blocks {
		if block.Type != blockType {
			continue
		}
		if found != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate \"" + blockType + "\" block",
				Detail:   "Only one \"" + blockType + "\" block is allowed.",
				Subject:  block.DefRange.Ptr(),
			})
			continue
		}
		found = block
	}

	return found, diags
}

func decodeBlock(class, name string, body hcl.Body) (*node, hcl.Diagnostics) {
	syntaxBody, ok := body.(*hclsyntax.Body)
	if !ok {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unsupported syntax",
			Detail:   "Override documents must use native HCL syntax.",
		}}
	}
	return decodeSyntaxBody(class, name, syntaxBody)
}

func decodeSyntaxBody(class, name string, body *hclsyntax.Body) (*node, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	n := &node{class: class, name: name}

	for attrName, attr := range body.Attributes {
		val, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		if n.attrs == nil {
			n.attrs = make(map[string]cty.Value)
		}
		n.attrs[attrName] = val
	}

	for _, block := range body.Blocks {
		if len(block.Labels) > 1 {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Too many labels",
				Detail:   fmt.Sprintf("A %q block takes at most one label (its name).", block.Type),
				Subject:  block.DefRange().Ptr(),
			})
			continue
		}
		childName := ""
		if len(block.Labels) == 1 {
			childName = block.Labels[0]
		}
		child, childDiags := decodeSyntaxBody(block.Type, childName, block.Body)
		diags = append(diags, childDiags...)
		n.children = append(n.children, child)
	}

	return n, diags
}

// baseName reduces a file path to its final component, accepting either
// separator.
func baseName(fileName string) string {
	fileName = strings.TrimSpace(strings.ReplaceAll(fileName, `\`, "/"))
	if fileName == "" {
		return ""
	}
	return path.Base(fileName)
}
