package evaluator

import "github.com/Suharaz/MerkleAI/pkg/types"

// filterIndicators keeps only the families the user selected and flattens
// their sub-indicator maps into a single payload. When two selected families
// carry the same sub-key, both occurrences are prefixed with their family
// name so neither silently shadows the other.
func filterIndicators(compressed types.CompressedIndicator, selected []string) map[string]interface{} {
	chosen := make(map[string]bool, len(selected))
	for _, name := range selected {
		chosen[name] = true
	}

	keyCount := make(map[string]int)
	for _, family := range compressed {
		if !chosen[family.Name] {
			continue
		}
		for key := range family.Data {
			keyCount[key]++
		}
	}

	merged := make(map[string]interface{})
	for _, family := range compressed {
		if !chosen[family.Name] {
			continue
		}
		for key, value := range family.Data {
			if keyCount[key] > 1 {
				merged[family.Name+"."+key] = value
			} else {
				merged[key] = value
			}
		}
	}
	return merged
}
