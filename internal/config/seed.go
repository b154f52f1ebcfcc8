package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// SeedFile describes optional reference data loaded into an empty store on
// first run: companies, their sites and recruiter accounts.
type SeedFile struct {
	Companies []struct {
		Name  string `yaml:"name"`
		Sites []struct {
			Name    string `yaml:"name"`
			City    string `yaml:"city"`
			Country string `yaml:"country"`
		} `yaml:"sites"`
	} `yaml:"companies"`
	Recruiters []struct {
		Username string `yaml:"username"`
		Role     string `yaml:"role"`
	} `yaml:"recruiters"`
}

func LoadSeed(path string) (SeedFile, error) {
	var sf SeedFile
	b, err := os.ReadFile(path)
	if err != nil {
		// Missing seed file should not kill startup
		if os.IsNotExist(err) {
			return sf, nil
		}
		return sf, err
	}
	err = yaml.Unmarshal(b, &sf)
	return sf, err
}
