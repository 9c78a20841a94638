// Package metadata builds the off-chain JSON document describing an NFT and
// uploads it to S3-compatible object storage.
package metadata

import (
	"fmt"
	"mime"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Attribute is one trait shown by wallets and marketplaces.
type Attribute struct {
	TraitType string `json:"trait_type" yaml:"trait_type"`
	Value     string `json:"value" yaml:"value"`
}

// File references an asset that belongs to the token.
type File struct {
	URI  string `json:"uri"`
	Type string `json:"type"`
}

// Properties holds the token's asset list.
type Properties struct {
	Files []File `json:"files"`
}

// Document is the metadata JSON uploaded before the token is minted.
type Document struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
	Properties  Properties  `json:"properties"`
}

// Input carries the user-supplied fields of a Document.
type Input struct {
	Name        string
	Description string
	Image       string
	Player      string
	Achievement string
	Extra       []Attribute
}

// Build assembles the Document. The Player and Achievement traits are always
// present, with an empty value when unset; a Date attribute records when the
// document was built.
func Build(in Input, now time.Time) Document {
	attrs := []Attribute{
		{TraitType: "Player", Value: in.Player},
		{TraitType: "Achievement", Value: in.Achievement},
		{TraitType: "Date", Value: now.UTC().Format("2006-01-02T15:04:05.000Z07:00")},
	}
	attrs = append(attrs, in.Extra...)

	return Document{
		Name:        in.Name,
		Description: in.Description,
		Image:       in.Image,
		Attributes:  attrs,
		Properties: Properties{
			Files: []File{{URI: in.Image, Type: ImageType(in.Image)}},
		},
	}
}

// ImageType guesses the MIME type of an image reference from its extension,
// defaulting to image/png.
func ImageType(ref string) string {
	p := ref
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		p = u.Path
	}
	ext := strings.ToLower(path.Ext(p))
	if ext == "" {
		return "image/png"
	}
	if t := mime.TypeByExtension(ext); strings.HasPrefix(t, "image/") {
		if i := strings.Index(t, ";"); i >= 0 {
			t = t[:i]
		}
		return t
	}
	return "image/png"
}

type attributesFile struct {
	Attributes []Attribute `yaml:"attributes"`
}

// LoadAttributes reads extra attributes from a YAML file of the form:
//
//	attributes:
//	  - trait_type: Rarity
//	    value: Legendary
func LoadAttributes(filename string) ([]Attribute, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read attributes file: %w", err)
	}

	var f attributesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse attributes file: %w", err)
	}

	for i, a := range f.Attributes {
		if strings.TrimSpace(a.TraitType) == "" {
			return nil, fmt.Errorf("attributes file: entry %d has no trait_type", i+1)
		}
	}
	return f.Attributes, nil
}
