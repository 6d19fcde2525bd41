package compose

import (
	"github.com/ChrisMcGann/utca/pkg/calculate"
	"github.com/ChrisMcGann/utca/pkg/core"
)

// Settings is the subset of core.Settings the composition stage depends on.
type Settings struct {
	Adduct    core.Adduct
	Precision uint32
	Groups    []core.Group
	Sort      core.SortBy
	Order     core.Order
}

// SettingsOf extracts the composition settings.
func SettingsOf(s core.Settings) Settings {
	return Settings{
		Adduct:    s.Adduct,
		Precision: s.Precision,
		Groups:    s.Groups,
		Sort:      s.Sort,
		Order:     s.Order,
	}
}

// Compose runs enumeration, labeling, aggregation and sort over a calculated
// table.
func Compose(table *calculate.Table, settings Settings) *Table {
	triplets := Enumerate(table)
	labeled := LabelAll(triplets, settings.Groups, LabelSettings{
		Adduct:    settings.Adduct,
		Precision: settings.Precision,
	})
	out := Aggregate(table.Name, labeled, settings.Groups)
	out.Sort(settings.Sort, settings.Order)
	return out
}
