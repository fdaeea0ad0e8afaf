package nxtree

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/nxload/internal/ctxlog"
	"github.com/specialistvlad/nxload/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

// Extension is the file suffix of textual node trees.
const Extension = ".nxs.hcl"

// Root attribute names that describe the file itself.
const (
	AttrFileName = "file_name"
	AttrVersion  = "NeXus_version"
)

const fieldBlock = "field"

// FindFiles returns every textual node tree under path.
func FindFiles(path string) ([]string, error) {
	return fsutil.FindFilesByExtension(path, Extension)
}

// Load parses a textual node tree from disk.
func Load(ctx context.Context, path string) (*Group, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading node tree.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse node tree %s: %w", path, diags)
	}
	root, err := fromFile(file, path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Node tree loaded.", "path", path, "children", root.NumChildren())
	return root, nil
}

// Parse parses a textual node tree from memory; filename is used for
// diagnostics and as the default file name of the root.
func Parse(src []byte, filename string) (*Group, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse node tree %s: %w", filename, diags)
	}
	return fromFile(file, filename)
}

// FileInfo returns the file name and schema version recorded on a root node.
// The file name falls back to the root's own name.
func FileInfo(root Node) (fileName, version string) {
	if s, ok := AttrString(root, AttrFileName); ok {
		fileName = s
	} else if root != nil {
		fileName = root.Name()
	}
	version, _ = AttrString(root, AttrVersion)
	return fileName, version
}

func fromFile(file *hcl.File, path string) (*Group, error) {
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("node tree %s is not in native HCL syntax", path)
	}
	root, diags := buildGroup(ClassRoot, filepath.Base(path), body)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode node tree %s: %w", path, diags)
	}
	// Root level leaves double as file attributes.
	for _, name := range []string{AttrFileName, AttrVersion} {
		if v, ok := FieldValue(root, name); ok {
			root.SetAttr(name, v)
		}
	}
	return root, nil
}

// positioned keeps children in document order across attributes and blocks.
type positioned struct {
	offset int
	node   Node
}

func buildGroup(class, name string, body *hclsyntax.Body) (*Group, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var items []positioned

	for _, attr := range body.Attributes {
		val, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		items = append(items, positioned{attr.SrcRange.Start.Byte, NewField(attr.Name, val)})
	}

	for _, block := range body.Blocks {
		if block.Type == fieldBlock {
			f, fDiags := buildField(block)
			diags = append(diags, fDiags...)
			if f != nil {
				items = append(items, positioned{block.TypeRange.Start.Byte, f})
			}
			continue
		}
		if len(block.Labels) > 1 {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Too many labels",
				Detail:   fmt.Sprintf("A %q group takes at most one label (its name).", block.Type),
				Subject:  block.DefRange().Ptr(),
			})
			continue
		}
		childName := ""
		if len(block.Labels) == 1 {
			childName = block.Labels[0]
		}
		child, childDiags := buildGroup(block.Type, childName, block.Body)
		diags = append(diags, childDiags...)
		items = append(items, positioned{block.TypeRange.Start.Byte, child})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].offset < items[j].offset })

	g := NewGroup(class, name)
	for _, it := range items {
		g.Add(it.node)
	}
	return g, diags
}

func buildField(block *hclsyntax.Block) (*Field, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	if len(block.Labels) != 1 {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid field block",
			Detail:   "A field block needs exactly one label: the field name.",
			Subject:  block.DefRange().Ptr(),
		})
		return nil, diags
	}
	if len(block.Body.Blocks) > 0 {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unexpected block",
			Detail:   "A field block holds attributes only.",
			Subject:  block.Body.Blocks[0].DefRange().Ptr(),
		})
		return nil, diags
	}

	value := cty.NilVal
	var dims cty.Value
	attrs := make(map[string]cty.Value)
	for name, attr := range block.Body.Attributes {
		val, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		switch name {
		case "value":
			value = val
		case "dims":
			dims = val
		default:
			attrs[name] = val
		}
	}

	f := NewField(block.Labels[0], value)
	for name, val := range attrs {
		f.WithAttr(name, val)
	}
	if IsSet(dims) {
		d, err := ToInts(dims)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid dims",
				Detail:   err.Error(),
				Subject:  block.DefRange().Ptr(),
			})
			return nil, diags
		}
		f.WithDims(d...)
	}
	return f, diags
}
