// datasetgen writes a small sample dataset plus a starter config so a
// fresh checkout can run planetctl without the full export.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/echomine/planetctl/internal/config"
)

func main() {
	output := flag.String("output", "data/planetary_resources.csv", "output path for the sample dataset")
	configOut := flag.String("config", "", "also write a config template to this path")
	force := flag.Bool("force", false, "overwrite existing files")
	flag.Parse()

	if !*force {
		if _, err := os.Stat(*output); err == nil {
			log.Fatalf("dataset already exists: %s", *output)
		}
	}
	if err := os.MkdirAll(filepath.Dir(*output), 0o755); err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(*output, []byte(sampleDataset), 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote sample dataset to %s", *output)

	if *configOut != "" {
		if err := config.WriteTemplate(*configOut, *force); err != nil {
			log.Fatal(err)
		}
		log.Printf("Wrote config template to %s", *configOut)
	}
}

const sampleDataset = `Planet ID,Region,Constellation,System,Planet Name,Planet Type,Resource,Richness,Output
1001,Verge Vendor,Aldilur,Alsottobier,Alsottobier III,Temperate,Base Metals,Rich,245.5
1001,Verge Vendor,Aldilur,Alsottobier,Alsottobier III,Temperate,Lustering Alloy,Medium,118.2
1002,Verge Vendor,Aldilur,Scheenins,Scheenins V,Lava,Heavy Metals,Perfect,310.0
1002,Verge Vendor,Aldilur,Scheenins,Scheenins V,Lava,Glossy Compound,Poor,67.4
1003,Verge Vendor,Unour,Ommaerrer,Ommaerrer II,Ice,Condensed Alloy,Rich,201.9
1004,Essence,Vieres,Jolia,Jolia I,Oceanic,Opulent Compound,Medium,140.7
1005,Essence,Vieres,Adreland,Adreland VI,Gas,Gaseous Compound,Rich,188.3
1006,Essence,Coriault,Deltole,Deltole IV,Plasma,Noble Metals,Perfect,275.6
1007,Essence,Coriault,Aufay,Aufay III,Storm,Reactive Gas,Medium,95.1
1008,Essence,Coriault,Deltole,Deltole VII,Barren,Toxic Metals,Rich,222.8
`
