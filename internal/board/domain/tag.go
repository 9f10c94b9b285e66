package domain

import (
	"fmt"
	"strings"
)

// Tag classifies the kind of work a ticket holds
type Tag string

const (
	TagFrontend Tag = "FE"
	TagBackend  Tag = "BE"
	TagDesign   Tag = "DS"
	TagPlanning Tag = "PL"
	TagQA       Tag = "QA"
	TagDevOps   Tag = "DO"
)

var validTags = map[Tag]bool{
	TagFrontend: true,
	TagBackend:  true,
	TagDesign:   true,
	TagPlanning: true,
	TagQA:       true,
	TagDevOps:   true,
}

// ParseTag accepts a tag code case-insensitively.
func ParseTag(s string) (Tag, error) {
	tag := Tag(strings.ToUpper(strings.TrimSpace(s)))
	if !validTags[tag] {
		return "", fmt.Errorf("%w: %q", ErrInvalidTag, s)
	}
	return tag, nil
}

func (t Tag) Valid() bool {
	return validTags[t]
}
