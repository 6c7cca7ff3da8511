package habit

import (
	"encoding/json"
	"time"
)

// PolicyKind tags a parsed cadence policy. Unknown frequency strings parse
// to KindUnrecognized rather than an error; DueOn treats that as due, but
// callers that want to reject bad config can inspect the kind.
type PolicyKind int

const (
	KindDaily PolicyKind = iota
	KindWeekdays
	KindWeekends
	KindWeekly
	KindThreePerWeek
	KindCustom
	KindUnrecognized
)

const (
	FrequencyDaily        = "daily"
	FrequencyWeekdays     = "weekdays"
	FrequencyWeekends     = "weekends"
	FrequencyWeekly       = "weekly"
	FrequencyThreePerWeek = "3x_week"
	FrequencyCustom       = "custom"
)

// Policy decides which calendar days a habit is due.
type Policy struct {
	Kind PolicyKind
	// Day is the scheduled weekday for weekly policies.
	Day time.Weekday
	// Days is the scheduled weekday set for 3x_week and custom policies.
	// Empty for custom means the config was absent or unusable; DueOn
	// fails open in that case.
	Days map[time.Weekday]bool
}

type frequencyConfig struct {
	Days      []int `json:"days"`
	DayOfWeek *int  `json:"dayOfWeek"`
}

// ParsePolicy turns a stored frequency tag plus its optional JSON config
// into a Policy. It never fails: malformed input degrades toward "always
// due" instead of rejecting, matching how the tracker has always behaved.
func ParsePolicy(frequency string, configJSON *string) Policy {
	cfg, cfgOK := parseConfig(configJSON)

	switch frequency {
	case FrequencyDaily, "":
		return Policy{Kind: KindDaily}
	case FrequencyWeekdays:
		return Policy{Kind: KindWeekdays}
	case FrequencyWeekends:
		return Policy{Kind: KindWeekends}
	case FrequencyWeekly:
		day := time.Monday
		if cfgOK && cfg.DayOfWeek != nil && *cfg.DayOfWeek >= 0 && *cfg.DayOfWeek <= 6 {
			day = time.Weekday(*cfg.DayOfWeek)
		}
		return Policy{Kind: KindWeekly, Day: day}
	case FrequencyThreePerWeek:
		days := daySet(cfg.Days)
		if !cfgOK || len(days) == 0 {
			days = map[time.Weekday]bool{time.Monday: true, time.Wednesday: true, time.Friday: true}
		}
		return Policy{Kind: KindThreePerWeek, Days: days}
	case FrequencyCustom:
		if !cfgOK {
			return Policy{Kind: KindCustom}
		}
		return Policy{Kind: KindCustom, Days: daySet(cfg.Days)}
	default:
		return Policy{Kind: KindUnrecognized}
	}
}

func parseConfig(configJSON *string) (frequencyConfig, bool) {
	var cfg frequencyConfig
	if configJSON == nil || *configJSON == "" {
		return cfg, false
	}
	if err := json.Unmarshal([]byte(*configJSON), &cfg); err != nil {
		return frequencyConfig{}, false
	}
	return cfg, true
}

func daySet(days []int) map[time.Weekday]bool {
	set := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		if d >= 0 && d <= 6 {
			set[time.Weekday(d)] = true
		}
	}
	return set
}

// DueOn reports whether the habit is due on the given calendar date.
// Pure; no clock access.
func (p Policy) DueOn(date time.Time) bool {
	wd := date.Weekday()
	switch p.Kind {
	case KindDaily:
		return true
	case KindWeekdays:
		return wd >= time.Monday && wd <= time.Friday
	case KindWeekends:
		return wd == time.Saturday || wd == time.Sunday
	case KindWeekly:
		return wd == p.Day
	case KindThreePerWeek:
		return p.Days[wd]
	case KindCustom:
		if len(p.Days) == 0 {
			return true
		}
		return p.Days[wd]
	default:
		return true
	}
}
