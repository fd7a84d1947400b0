package seed

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a marketplace fixture.
//
//	users:
//	  - id: jeff
//	    known: [C Programming]
//	    learning: [Underwater Basket Weaving]
//	projects:
//	  - name: PR2
//	    owner: john
//	    required: [C Programming, UML Diagram Design]
//	    pending: [jeff]
type File struct {
	Users    []UserSpec    `yaml:"users"`
	Projects []ProjectSpec `yaml:"projects"`
}

type UserSpec struct {
	ID       string   `yaml:"id"`
	Known    []string `yaml:"known"`
	Learning []string `yaml:"learning"`
}

type ProjectSpec struct {
	Name     string   `yaml:"name"`
	Owner    string   `yaml:"owner"`
	Required []string `yaml:"required"`
	Pending  []string `yaml:"pending"`
	Members  []string `yaml:"members"`
}

func Parse(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return File{}, nil
		}
		return File{}, fmt.Errorf("decode seed: %w", err)
	}
	return f, nil
}

func Load(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("open seed: %w", err)
	}
	defer fh.Close()
	return Parse(fh)
}

// Seeders returns the seeders that apply f, users first.
func (f File) Seeders() []Seeder {
	return []Seeder{
		UsersSeeder{Users: f.Users},
		ProjectsSeeder{Projects: f.Projects},
		MembershipsSeeder{Projects: f.Projects},
	}
}
