package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rattab/legiontech/pkg/atoms"
	"github.com/rattab/legiontech/pkg/check"
	"github.com/rattab/legiontech/pkg/dbgen"
	"github.com/rattab/legiontech/pkg/diag"
	"github.com/rattab/legiontech/pkg/dump"
	"github.com/rattab/legiontech/pkg/gen"
	"github.com/rattab/legiontech/pkg/parse"
	"github.com/rattab/legiontech/pkg/reader"
	"github.com/rattab/legiontech/pkg/ttree"
	"github.com/rattab/legiontech/pkg/writer"
)

// Tech runs the Reader -> Tree -> Parser -> InputChecker -> Generator ->
// OutputChecker -> Dumpers pipeline: it reads <inputDir>/tech.lisp, and on
// success writes canonical Lisp into <srcDir>/tech.lisp and the
// Graphviz/SVG debug artifacts into <outputDir>. Diagnostics accumulate in
// diags within each stage; once a stage has recorded an error, Tech returns
// nil without running the later stages or writing any artifact. The caller
// decides the exit code from diags.HasErrors().
func Tech(cfg Config, inputDir, srcDir, outputDir string, diags *diag.Diagnostics) error {
	inPath := filepath.Join(inputDir, "tech.lisp")
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("pipeline: reading %s: %w", inPath, err)
	}

	tree := ttree.New()
	r := reader.New(inPath, data, diags)
	parse.File(tree, r, diags)
	if diags.HasErrors() {
		return nil
	}

	check.Inputs(tree, diags)
	if diags.HasErrors() {
		return nil
	}

	gen.Generate(tree, diags)
	if diags.HasErrors() {
		return nil
	}

	check.Outputs(tree, diags)
	if diags.HasErrors() {
		return nil
	}

	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		return fmt.Errorf("pipeline: creating %s: %w", srcDir, err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("pipeline: creating %s: %w", outputDir, err)
	}

	lispPath := filepath.Join(srcDir, "tech.lisp")
	lispFile, err := writer.Create(lispPath)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := dump.DumpLisp(lispFile.Writer, tree); err != nil {
		return fmt.Errorf("pipeline: dumping %s: %w", lispPath, err)
	}
	if err := lispFile.Close(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	if cfg.EmitDot {
		dotPath := filepath.Join(outputDir, "tech.dot")
		dotFile, err := os.Create(dotPath)
		if err != nil {
			return fmt.Errorf("pipeline: creating %s: %w", dotPath, err)
		}
		defer dotFile.Close()
		if err := dump.DumpDot(dotFile, tree); err != nil {
			return fmt.Errorf("pipeline: dumping %s: %w", dotPath, err)
		}
	}

	if cfg.EmitSVG {
		svgPath := filepath.Join(outputDir, "tech.svg")
		opts := dump.SVGOptions{
			Width: cfg.SVG.Width, Height: cfg.SVG.Height,
			NodeRadius: cfg.SVG.NodeRadius, Margin: cfg.SVG.Margin,
			ShowLabels: cfg.SVG.ShowLabels,
		}
		if err := os.WriteFile(svgPath, dump.DumpTreeSVG(tree, opts), 0o644); err != nil {
			return fmt.Errorf("pipeline: writing %s: %w", svgPath, err)
		}
	}

	return nil
}

// DB runs the downstream db command: it reads <srcDir>/tech.lisp back in
// (the same canonical format Tech just wrote), plus <resDir>/io.lisp and
// <resDir>/stars/{prefix,suffix,rolls}.lisp, and writes the generated C
// header fragments into <srcDir>/gen/. When dumpResolved is set, it also
// writes <srcDir>/gen/resolved.yaml: the fully-parsed stellar pools, for
// inspecting a run without reverse-engineering the emitted .h fragments.
func DB(resDir, srcDir string, dumpResolved bool, diags *diag.Diagnostics) error {
	techPath := filepath.Join(srcDir, "tech.lisp")
	techData, err := os.ReadFile(techPath)
	if err != nil {
		return fmt.Errorf("pipeline: reading %s: %w", techPath, err)
	}

	tree := ttree.New()
	r := reader.New(techPath, techData, diags)
	parse.File(tree, r, diags)
	if diags.HasErrors() {
		return nil
	}

	table := atoms.New()

	src := dbgen.Sources{
		IOPath: filepath.Join(resDir, "io.lisp"),

		PrefixPath: filepath.Join(resDir, "stars", "prefix.lisp"),
		SuffixPath: filepath.Join(resDir, "stars", "suffix.lisp"),
		RollsPath:  filepath.Join(resDir, "stars", "rolls.lisp"),
	}
	if src.IOData, err = os.ReadFile(src.IOPath); err != nil {
		return fmt.Errorf("pipeline: reading %s: %w", src.IOPath, err)
	}
	if src.PrefixData, err = os.ReadFile(src.PrefixPath); err != nil {
		return fmt.Errorf("pipeline: reading %s: %w", src.PrefixPath, err)
	}
	if src.SuffixData, err = os.ReadFile(src.SuffixPath); err != nil {
		return fmt.Errorf("pipeline: reading %s: %w", src.SuffixPath, err)
	}
	if src.RollsData, err = os.ReadFile(src.RollsPath); err != nil {
		return fmt.Errorf("pipeline: reading %s: %w", src.RollsPath, err)
	}

	state := dbgen.Run(tree, src, table, diags)
	if diags.HasErrors() {
		return nil
	}

	genDir := filepath.Join(srcDir, "gen")
	if err := os.MkdirAll(genDir, 0o755); err != nil {
		return fmt.Errorf("pipeline: creating %s: %w", genDir, err)
	}
	if err := state.Frag.WriteAll(genDir); err != nil {
		return err
	}

	if dumpResolved {
		data, err := state.ResolvedYAML()
		if err != nil {
			return fmt.Errorf("pipeline: marshaling resolved stars: %w", err)
		}
		if err := os.WriteFile(filepath.Join(genDir, "resolved.yaml"), data, 0o644); err != nil {
			return fmt.Errorf("pipeline: writing resolved.yaml: %w", err)
		}
	}

	return nil
}
