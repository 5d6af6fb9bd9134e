// Package main provides a generator that extracts CLI, configuration, rule and
// policy metadata from samplegate source code and generates markdown documentation.
//
// Usage:
//
//	go run ./scripts/gendocs -gen=cli -outdir=docs/cli
//	go run ./scripts/gendocs -gen=config -outdir=docs/reference
//	go run ./scripts/gendocs -gen=rules -outdir=docs/rules
//	go run ./scripts/gendocs -gen=policy -outdir=docs/reference
//	go run ./scripts/gendocs -gen=all
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
)

var (
	genFlag    = flag.String("gen", "all", "what to generate: cli, config, rules, policy, all")
	outDirFlag = flag.String("outdir", "", "output directory (defaults based on gen type)")
)

// generators maps each -gen value to its generator and default directory.
var generators = []struct {
	name string
	dir  string
	fn   func(outDir string) error
}{
	{"cli", "cli", generateCLIDocs},
	{"config", "reference", generateConfigDocs},
	{"rules", "rules", generateRuleDocs},
	{"policy", "reference", generatePolicyDocs},
}

func main() {
	flag.Parse()

	valid := *genFlag == "all"
	for _, g := range generators {
		valid = valid || g.name == *genFlag
	}
	if !valid {
		log.Fatalf("unknown -gen value: %s (use: cli, config, rules, policy, all)", *genFlag)
	}

	// Find project root (where go.mod is)
	projectRoot, err := findProjectRoot()
	if err != nil {
		log.Fatalf("failed to find project root: %v", err)
	}

	log.Printf("Project root: %s", projectRoot)

	for _, g := range generators {
		if *genFlag != "all" && *genFlag != g.name {
			continue
		}
		outDir := filepath.Join(projectRoot, "docs", g.dir)
		if *outDirFlag != "" && *genFlag != "all" {
			outDir = *outDirFlag
		}
		if err := g.fn(outDir); err != nil {
			log.Fatalf("failed to generate %s docs: %v", g.name, err)
		}
	}

	log.Println("Done!")
}

// findProjectRoot walks up from current directory to find go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
