package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/samplegate/pkg/policy"
)

// generatePolicyDocs generates the import policy reference page. An existing
// page keeps its hand-written introduction; only the reference section is
// regenerated.
func generatePolicyDocs(outDir string) error {
	log.Printf("Generating policy docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Clean(filepath.Join(outDir, "policy.md"))

	existing, err := os.ReadFile(path) //#nosec G304 -- path is built from the project root
	if err != nil {
		return generateFullPolicyDoc(path)
	}

	content := string(existing)
	if idx := strings.Index(content, "## Reference"); idx >= 0 {
		content = content[:idx]
	}
	return os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n\n"+generatePolicyReferenceSection()), 0600)
}

// generatePolicyReferenceSection lists the default denylist and host globals.
func generatePolicyReferenceSection() string {
	w := NewMarkdownWriter()

	w.Header(2, "Reference")
	w.GeneratedMarker()

	w.Header(3, "Denied Imports")
	w.Paragraph(fmt.Sprintf("Matching any of these patterns adds a %s error. "+
		"The `node:` prefix and subpaths are normalized first, so `node:fs/promises` matches `fs`.", InlineCode(policy.RuleID)))
	w.BulletList(codeList(policy.DefaultDeniedImports))

	w.Header(3, "Allowed Globals")
	w.Paragraph("Identifiers the host defines in addition to ECMAScript builtins. References to them are never reported by `no-undef`.")
	w.BulletList(codeList(policy.DefaultAllowedGlobals))

	w.Header(3, "Example")
	w.CodeBlock("yaml", `policy:
  denied_imports:
    - child_process
    - "fs*"
    - "@internal/**"
  allowed_globals:
    - document
    - Phaser`)

	return w.String()
}

// generateFullPolicyDoc generates a complete policy.md file.
func generateFullPolicyDoc(path string) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Import Policy", "Module denylist and host globals")
	w.GeneratedMarker()

	w.Header(1, "Import Policy")
	w.Paragraph("The import policy checks every static import, re-export, dynamic `import()` and `require()` call " +
		"whose specifier is a string constant. It runs on every parsed sample regardless of lint configuration.")

	w.Text(generatePolicyReferenceSection())

	return os.WriteFile(path, w.Bytes(), 0600)
}

func codeList(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = InlineCode(s)
	}
	return out
}
