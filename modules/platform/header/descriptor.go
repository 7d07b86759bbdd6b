// Package header owns the single top-bar slot shared by every screen: the
// descriptor store with its guard chain, and the deriver that turns the slot
// plus the active route into the header actually rendered.
package header

import (
	"strings"
	"time"
)

// Descriptor describes what the top bar should currently show. Optional
// fields are pointers so that "not set" differs from the zero value.
type Descriptor struct {
	Title             *string
	Subtitle          *string
	ShowBack          *bool
	OnBack            func()
	Manual            bool
	Hidden            bool
	Owner             Owner
	AlignLeftOnMobile *bool
	Provisional       bool

	// Stamp is the logical write time. Zero means "stamp on write".
	Stamp uint64
}

// Text returns a pointer to s, for descriptor literals
func Text(s string) *string { return &s }

// Flag returns a pointer to b, for descriptor literals
func Flag(b bool) *bool { return &b }

func (d *Descriptor) clone() *Descriptor {
	if d == nil {
		return nil
	}
	c := *d
	if d.Title != nil {
		c.Title = Text(*d.Title)
	}
	if d.Subtitle != nil {
		c.Subtitle = Text(*d.Subtitle)
	}
	if d.ShowBack != nil {
		c.ShowBack = Flag(*d.ShowBack)
	}
	if d.AlignLeftOnMobile != nil {
		c.AlignLeftOnMobile = Flag(*d.AlignLeftOnMobile)
	}
	return &c
}

// TitleText returns the title or ""
func (d *Descriptor) TitleText() string {
	if d == nil || d.Title == nil {
		return ""
	}
	return *d.Title
}

// SubtitleText returns the subtitle or ""
func (d *Descriptor) SubtitleText() string {
	if d == nil || d.Subtitle == nil {
		return ""
	}
	return *d.Subtitle
}

// fingerprint identifies a descriptor's visible identity: owner screen,
// title and subtitle.
func fingerprint(d *Descriptor) string {
	if d == nil {
		return ""
	}
	return strings.Join([]string{string(d.Owner.Screen()), d.TitleText(), d.SubtitleText()}, "|")
}

// sameContent compares the fields that affect what is rendered.
func sameContent(a, b *Descriptor) bool {
	if a == nil || b == nil {
		return a == b
	}
	return eqText(a.Title, b.Title) &&
		eqText(a.Subtitle, b.Subtitle) &&
		eqFlag(a.ShowBack, b.ShowBack) &&
		a.Manual == b.Manual &&
		a.Hidden == b.Hidden &&
		eqFlag(a.AlignLeftOnMobile, b.AlignLeftOnMobile)
}

func eqText(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqFlag(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ClearRecord remembers the last time the slot was emptied, so that a clear
// immediately followed by the same write can be recognized as flapping.
type ClearRecord struct {
	Owner       Owner
	At          time.Time
	Stamp       uint64
	Fingerprint string
}
