package services

import (
	"sort"
	"strconv"

	"github.com/tidwall/gjson"

	"image-transform-api/internal/generator"
	"image-transform-api/internal/models"
)

// extraction is what the two strategies found in one model response
type extraction struct {
	Images   []models.GeneratedArtifact
	Text     *string
	Fallback bool
}

// extractArtifacts runs the typed candidates path first and falls back to a
// full document scan only when the typed path yields no images.
func extractArtifacts(resp *generator.Response) extraction {
	images, text := extractFromParts(resp)
	if len(images) > 0 {
		return extraction{Images: images, Text: text}
	}

	return extraction{
		Images:   scanInlineData(resp.Document()),
		Text:     text,
		Fallback: true,
	}
}

// extractFromParts walks candidates[0].content.parts in order. A part with
// inline data becomes an image; otherwise its text replaces the captured text.
func extractFromParts(resp *generator.Response) ([]models.GeneratedArtifact, *string) {
	if resp == nil || resp.Kind != generator.KindCandidates {
		return nil, nil
	}

	var images []models.GeneratedArtifact
	var text *string
	for _, part := range resp.Parts {
		if part.InlineData != nil && part.InlineData.Data != "" {
			images = append(images, newArtifact(part.InlineData.Data, part.InlineData.MimeType))
			continue
		}
		if part.Text != "" {
			t := part.Text
			text = &t
		}
	}
	return images, text
}

// scanInlineData visits every node of doc depth-first in pre-order and
// collects each object whose inlineData.data is a non-empty string.
// Scalars are skipped per node; the scan never fails.
func scanInlineData(doc gjson.Result) []models.GeneratedArtifact {
	var images []models.GeneratedArtifact

	stack := []gjson.Result{doc}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if skipNode(node) {
			continue
		}

		if node.IsObject() {
			if artifact, ok := inlineArtifact(node.Get("inlineData")); ok {
				images = append(images, artifact)
			}
		}

		children := childrenOf(node)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	return images
}

func skipNode(node gjson.Result) bool {
	return !node.IsObject() && !node.IsArray()
}

func inlineArtifact(inline gjson.Result) (models.GeneratedArtifact, bool) {
	if !inline.IsObject() {
		return models.GeneratedArtifact{}, false
	}
	data := inline.Get("data")
	if data.Type != gjson.String || data.Str == "" {
		return models.GeneratedArtifact{}, false
	}

	var mimeType string
	if mt := inline.Get("mimeType"); mt.Type == gjson.String {
		mimeType = mt.Str
	}
	return newArtifact(data.Str, mimeType), true
}

// childrenOf lists array elements in order, or object values in property
// enumeration order: integer-like keys ascending, then the rest as written.
func childrenOf(node gjson.Result) []gjson.Result {
	if node.IsArray() {
		return node.Array()
	}

	type entry struct {
		index uint64
		value gjson.Result
	}
	var indexed []entry
	var named []gjson.Result
	node.ForEach(func(key, value gjson.Result) bool {
		if idx, ok := arrayIndexKey(key.Str); ok {
			indexed = append(indexed, entry{index: idx, value: value})
		} else {
			named = append(named, value)
		}
		return true
	})

	sort.SliceStable(indexed, func(i, j int) bool { return indexed[i].index < indexed[j].index })

	children := make([]gjson.Result, 0, len(indexed)+len(named))
	for _, e := range indexed {
		children = append(children, e.value)
	}
	return append(children, named...)
}

// arrayIndexKey reports whether key is a canonical integer index below 2^32-1
func arrayIndexKey(key string) (uint64, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	idx, err := strconv.ParseUint(key, 10, 32)
	if err != nil || idx == 1<<32-1 {
		return 0, false
	}
	return idx, true
}

func newArtifact(data, mimeType string) models.GeneratedArtifact {
	if mimeType == "" {
		mimeType = models.DefaultMimeType
	}
	return models.GeneratedArtifact{Data: data, MimeType: mimeType}
}
