package wire

import (
	"strconv"
	"strings"

	"github.com/mesh-intelligence/casemap/pkg/types"
)

// parseDependency reads an Enables path such as
// "Custom_Field[@id=12]/Option[@id=3 or @id=4]". The target field id is the
// digits before the first "]"; each "or"-separated part from "/Option" on
// contributes the digits it holds as an allowed option id. A path without a
// target id yields false.
func parseDependency(path string) (types.DependentField, bool) {
	end := strings.Index(path, "]")
	if end < 0 {
		return types.DependentField{}, false
	}
	fieldID, ok := digits(path[:end+1])
	if !ok {
		return types.DependentField{}, false
	}

	dep := types.DependentField{FieldID: fieldID, Path: path}
	if i := strings.Index(path, "/Option"); i >= 0 {
		for _, part := range strings.Split(path[i:], "or") {
			if id, ok := digits(part); ok {
				dep.OptionIDs = append(dep.OptionIDs, id)
			}
		}
	}
	return dep, true
}

// digits concatenates the decimal digits of s and parses them.
func digits(s string) (int64, bool) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
