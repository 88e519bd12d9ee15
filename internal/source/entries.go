// Package source provides the demo data set and a simulated paged
// remote source for exercising the controller's online mode.
package source

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Entry is the demo item type: a named thing in a category. The
// controller itself is generic; this is just what the demo browses.
type Entry struct {
	Name     string
	Category string
}

func (e Entry) String() string {
	return e.Name
}

// SearchFields projects an entry to the strings it is matched against
func SearchFields(e Entry) []string {
	return []string{e.Name, e.Category}
}

// LoadEntries reads entries from a text file, one per line, in the form
// "category/name". Lines without a slash land in the "misc" category;
// blank lines and #-comments are skipped.
func LoadEntries(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		category, name, found := strings.Cut(line, "/")
		if !found {
			entries = append(entries, Entry{Name: line, Category: "misc"})
			continue
		}
		entries = append(entries, Entry{Name: strings.TrimSpace(name), Category: strings.TrimSpace(category)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	return entries, nil
}

// SampleEntries returns the built-in demo collection used when no data
// file is given
func SampleEntries() []Entry {
	return []Entry{
		{Name: "Apple", Category: "fruit"},
		{Name: "Apricot", Category: "fruit"},
		{Name: "Banana", Category: "fruit"},
		{Name: "Blueberry", Category: "fruit"},
		{Name: "Cherry", Category: "fruit"},
		{Name: "Grapefruit", Category: "fruit"},
		{Name: "Pineapple", Category: "fruit"},
		{Name: "Asparagus", Category: "vegetable"},
		{Name: "Broccoli", Category: "vegetable"},
		{Name: "Carrot", Category: "vegetable"},
		{Name: "Cauliflower", Category: "vegetable"},
		{Name: "Potato", Category: "vegetable"},
		{Name: "Spinach", Category: "vegetable"},
		{Name: "Almond", Category: "nut"},
		{Name: "Cashew", Category: "nut"},
		{Name: "Hazelnut", Category: "nut"},
		{Name: "Peanut", Category: "nut"},
		{Name: "Walnut", Category: "nut"},
	}
}
