package models

// Category is the kind of production work being requested.
type Category string

const (
	CategoryPrinted Category = "printed"
	CategoryDigital Category = "digital"
	CategoryWebsite Category = "website"
	CategoryEvent   Category = "event"
	CategoryVideo   Category = "video"
	CategoryOther   Category = "other"
)

// Categories lists the fixed category enumeration in form order.
var Categories = []Category{
	CategoryPrinted,
	CategoryDigital,
	CategoryWebsite,
	CategoryEvent,
	CategoryVideo,
	CategoryOther,
}

var categoryLabels = map[Category][2]string{
	CategoryPrinted: {"Printed Media", "🖨️ Printed Media"},
	CategoryDigital: {"Digital Media", "📱 Digital Media"},
	CategoryWebsite: {"Website", "🌐 Website"},
	CategoryEvent:   {"Event Coverage", "📸 Event Coverage"},
	CategoryVideo:   {"Video Production", "🎬 Video Production"},
	CategoryOther:   {"Other", "✦ Other"},
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l[0]
	}
	return string(c)
}

// IconLabel prefixes the label with the category glyph used on cards.
func (c Category) IconLabel() string {
	if l, ok := categoryLabels[c]; ok {
		return l[1]
	}
	return string(c)
}
