package wire

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/casemap/pkg/types"
)

const listTag = "Entities"

// DecodeList parses an Entities listing. Each child element is decoded as
// one entity; FullyLoaded follows opts.Minimal as for Decode.
func DecodeList(data []byte, opts DecodeOptions) (*types.List, error) {
	root, err := readRoot(data)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(root.Tag, listTag) {
		return nil, fmt.Errorf("listing root %q: %w", root.Tag, types.ErrInvalidDocument)
	}

	list := &types.List{
		Total:    intAttr(root, "total"),
		Returned: intAttr(root, "results"),
		Page:     intAttr(root, "page"),
		PageSize: intAttr(root, "page-size"),
		Entities: []*types.Entity{},
	}
	for _, c := range root.ChildElements() {
		e := decodeEntity(c, opts)
		e.FullyLoaded = !opts.Minimal
		list.Entities = append(list.Entities, e)
	}
	return list, nil
}
