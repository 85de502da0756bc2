// Package classify maps method names to the write operations they imply.
//
// Two disjoint vocabularies exist. Direct methods act on the receiver's own
// row (Create, Save, Destroy, ...). Association mixins act on a named
// association of the receiver (AddAssoc, SetAssoc, ...) and are handed to the
// mixin handler instead. A name in neither vocabulary is simply not a write.
package classify

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"model-usage/internal/common"
	"model-usage/internal/usage"
)

// MixinVerb identifies an association mixin.
type MixinVerb int

const (
	MixinNone MixinVerb = iota
	MixinAdd
	MixinCreate
	MixinSet
	MixinRemove
	// MixinRead covers get/count/has: recognised, never a write.
	MixinRead
	// MixinUnknown is a mixin-shaped name with an unrecognised stem.
	MixinUnknown
)

// String returns the verb stem.
func (v MixinVerb) String() string {
	switch v {
	case MixinAdd:
		return "add"
	case MixinCreate:
		return "create"
	case MixinSet:
		return "set"
	case MixinRemove:
		return "remove"
	case MixinRead:
		return "read"
	case MixinNone:
		return "none"
	default:
		return common.UnknownStr
	}
}

// DefaultMixinSuffix marks association mixin methods: AddAssoc, SetAssoc, ...
const DefaultMixinSuffix = "Assoc"

// Vocabulary lists the method names of both dialects. Names are matched with
// their first rune lower-cased, so "Create" and "create" are the same verb.
type Vocabulary struct {
	Insert []string
	Update []string
	Delete []string
	// MixinSuffix marks mixin methods; the stem before it picks the verb.
	MixinSuffix string
}

// DefaultVocabulary returns the built-in method table.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Insert:      []string{"create", "bulkCreate", "findOrCreate", "findOrBuild", "findCreateFind", "build", "upsert"},
		Update:      []string{"update", "save", "set", "increment", "decrement", "restore", "bulkUpdate", "upsert"},
		Delete:      []string{"destroy"},
		MixinSuffix: DefaultMixinSuffix,
	}
}

// Extend returns a copy of v with extra names appended to each operation.
func (v Vocabulary) Extend(insert, update, del []string) Vocabulary {
	out := v
	out.Insert = append(append([]string(nil), v.Insert...), insert...)
	out.Update = append(append([]string(nil), v.Update...), update...)
	out.Delete = append(append([]string(nil), v.Delete...), del...)

	return out
}

var mixinStems = map[string]MixinVerb{
	"add":    MixinAdd,
	"create": MixinCreate,
	"set":    MixinSet,
	"remove": MixinRemove,
	"get":    MixinRead,
	"count":  MixinRead,
	"has":    MixinRead,
}

// Classifier answers which operations a method name implies.
type Classifier struct {
	direct map[string]usage.Ops
	suffix string
}

// New builds a Classifier. It fails when a direct name would also be read as
// a mixin, since the two vocabularies must stay disjoint.
func New(v Vocabulary) (*Classifier, error) {
	c := &Classifier{direct: make(map[string]usage.Ops), suffix: v.MixinSuffix}

	add := func(names []string, op usage.Ops) {
		for _, n := range names {
			if n = normalize(n); n != "" {
				c.direct[n] |= op
			}
		}
	}

	add(v.Insert, usage.OpInsert)
	add(v.Update, usage.OpUpdate)
	add(v.Delete, usage.OpDelete)

	for name := range c.direct {
		if c.isMixinShape(name) {
			return nil, fmt.Errorf("method %q is both a direct write and a mixin", name)
		}
	}

	return c, nil
}

// MustDefault returns the Classifier for DefaultVocabulary.
func MustDefault() *Classifier {
	c, err := New(DefaultVocabulary())
	if err != nil {
		panic(err)
	}

	return c
}

// Direct returns the operations a direct method implies, or false when the
// name is not a direct write.
func (c *Classifier) Direct(method string) (usage.Ops, bool) {
	ops, ok := c.direct[normalize(method)]
	return ops, ok
}

// Mixin returns the verb of a mixin-shaped method name, or MixinNone.
func (c *Classifier) Mixin(method string) MixinVerb {
	name := normalize(method)
	if !c.isMixinShape(name) {
		return MixinNone
	}

	stem := strings.TrimSuffix(name, c.suffix)
	if verb, ok := mixinStems[stem]; ok {
		return verb
	}

	return MixinUnknown
}

func (c *Classifier) isMixinShape(name string) bool {
	return c.suffix != "" && len(name) > len(c.suffix) && strings.HasSuffix(name, c.suffix)
}

// normalize lower-cases the first rune only: "BulkCreate" -> "bulkCreate".
func normalize(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return ""
	}

	return string(unicode.ToLower(r)) + name[size:]
}
