package skill

import (
	"slices"
	"strings"
)

// Skill is identified by its name. Two skills with the same name are the same skill.
type Skill string

func (s Skill) String() string { return string(s) }

// Set is an unordered collection of skills. Methods that return skills in a
// slice sort them by name so output is reproducible.
type Set map[Skill]struct{}

func NewSet(skills ...Skill) Set {
	s := make(Set, len(skills))
	for _, sk := range skills {
		s.Add(sk)
	}
	return s
}

// Add reports whether sk was not already present.
func (s Set) Add(sk Skill) bool {
	if _, ok := s[sk]; ok {
		return false
	}
	s[sk] = struct{}{}
	return true
}

func (s Set) Remove(sk Skill) {
	delete(s, sk)
}

func (s Set) Has(sk Skill) bool {
	_, ok := s[sk]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

func (s Set) Clone() Set {
	out := make(Set, len(s))
	for sk := range s {
		out[sk] = struct{}{}
	}
	return out
}

func (s Set) Union(other Set) Set {
	out := s.Clone()
	for sk := range other {
		out[sk] = struct{}{}
	}
	return out
}

func (s Set) Intersect(other Set) Set {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(Set)
	for sk := range small {
		if large.Has(sk) {
			out[sk] = struct{}{}
		}
	}
	return out
}

func (s Set) Sorted() []Skill {
	out := make([]Skill, 0, len(s))
	for sk := range s {
		out = append(out, sk)
	}
	slices.Sort(out)
	return out
}

func FromStrings(names []string) []Skill {
	out := make([]Skill, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		out = append(out, Skill(n))
	}
	return out
}
