package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/notely"
	"github.com/aretw0/notely/pkg/core"
)

// resolveTags maps each reference (a tag id, or a label compared
// case-insensitively) to a registry tag. Unknown labels are created when
// create is set, and reported otherwise.
func resolveTags(ctx context.Context, svc *notely.Service, refs []string, create bool) ([]core.Tag, error) {
	var out []core.Tag
	for _, ref := range refs {
		if tag, ok := findTag(svc.Tags(), ref); ok {
			out = append(out, tag)
			continue
		}
		if !create {
			return nil, fmt.Errorf("unknown tag %q", ref)
		}
		tag, err := svc.NewTag(ctx, ref)
		if err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	return out, nil
}

func findTag(tags []core.Tag, ref string) (core.Tag, bool) {
	for _, t := range tags {
		if t.ID == ref {
			return t, true
		}
	}
	for _, t := range tags {
		if strings.EqualFold(t.Label, ref) {
			return t, true
		}
	}
	return core.Tag{}, false
}

func labels(tags []core.Tag) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Label
	}
	return strings.Join(names, ", ")
}
