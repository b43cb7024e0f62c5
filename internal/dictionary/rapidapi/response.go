// Package rapidapi holds the response of WordsAPI on RapidAPI.
// https://rapidapi.com/dpventures/api/wordsapi
package rapidapi

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Response struct {
	Word          string        `json:"word"`
	Syllables     Syllable      `json:"syllables"`
	Frequency     float64       `json:"frequency"`
	Pronunciation Pronunciation `json:"pronunciation"`
	Results       []Result      `json:"results"`
}

type Syllable struct {
	Count int      `json:"count"`
	List  []string `json:"list"`
}

type Pronunciation struct {
	All string `json:"all"`
}

func (p *Pronunciation) UnmarshalJSON(data []byte) error {
	// pronunciation can be either a struct or a simple string
	if len(data) > 0 && data[0] == '{' {
		var all struct {
			All string `json:"all"`
		}
		if err := json.Unmarshal(data, &all); err != nil {
			return fmt.Errorf("json.Unmarshal > %w", err)
		}
		p.All = all.All
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("json.Unmarshal > %w", err)
	}
	p.All = s
	return nil
}

type Result struct {
	Definition   string   `json:"definition"`
	PartOfSpeech string   `json:"partOfSpeech"`
	Synonyms     []string `json:"synonyms"`
	Examples     []string `json:"examples"`
}

func (r Response) FirstDefinition() string {
	for _, result := range r.Results {
		if result.Definition != "" {
			return result.Definition
		}
	}
	return ""
}

func (r Response) FirstExample() string {
	for _, result := range r.Results {
		if len(result.Examples) > 0 {
			return result.Examples[0]
		}
	}
	return ""
}

// Describe formats the response for a terminal, one meaning per block.
func (r Response) Describe() string {
	var b strings.Builder
	if r.Pronunciation.All != "" {
		fmt.Fprintf(&b, "%s: /%s/\n", r.Word, r.Pronunciation.All)
	} else {
		b.WriteString(r.Word + "\n")
	}

	for i, result := range r.Results {
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, result.PartOfSpeech, result.Definition)
		if len(result.Examples) > 0 {
			fmt.Fprintf(&b, "   Examples: %s\n", strings.Join(result.Examples, ", "))
		}
		if len(result.Synonyms) > 0 {
			fmt.Fprintf(&b, "   Synonyms: %s\n", strings.Join(result.Synonyms, ", "))
		}
	}
	return b.String()
}
