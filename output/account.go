package output

import (
	"strings"

	"github.com/yllada/windscribe-client/common"
)

// AccountInfo describes the authenticated user's account as printed by the
// account command.
type AccountInfo struct {
	Username  string `json:"username,omitempty"`
	Plan      string `json:"plan,omitempty"`
	DataUsage string `json:"data_usage,omitempty"`
	DataLimit string `json:"data_limit,omitempty"`
	ResetDate string `json:"reset_date,omitempty"`
	// Fields holds every "Key: Value" pair, keyed by the normalized key
	// (lower case, spaces replaced by underscores).
	Fields map[string]string `json:"fields,omitempty"`
}

// IsPro reports whether the plan grants premium locations. A plan naming
// "free" or no plan at all is treated as not premium.
func (a AccountInfo) IsPro() bool {
	plan := strings.ToLower(a.Plan)
	return plan != "" && !strings.Contains(plan, "free")
}

// ParseAccount parses "Key: Value" lines from the account command. Lines
// without a colon (banners, separators) are skipped. Output with no pairs at
// all is unsupported.
func ParseAccount(lines []string) (AccountInfo, error) {
	clean := NonEmpty(SanitizeLines(lines))
	info := AccountInfo{Fields: make(map[string]string)}

	for _, line := range clean {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = normalizeKey(key)
		value = strings.TrimSpace(value)
		if key == "" {
			continue
		}
		info.Fields[key] = value

		switch key {
		case "username", "user":
			info.Username = value
		case "plan", "plan_type", "account_type":
			info.Plan = value
		case "data_usage", "data_used", "usage":
			used, limit := splitUsage(value)
			info.DataUsage = used
			if limit != "" {
				info.DataLimit = limit
			}
		case "data_limit", "bandwidth":
			info.DataLimit = value
		case "reset_date", "resets", "expiry_date", "expires":
			info.ResetDate = value
		}
	}

	if len(info.Fields) == 0 {
		return AccountInfo{}, common.NewOutputError(common.ErrUnsupportedOutput, "", "no account fields", clean)
	}
	return info, nil
}

func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	return strings.Join(strings.Fields(k), "_")
}

// splitUsage splits "1.23 GB / 10 GB" into used and limit.
func splitUsage(v string) (string, string) {
	used, limit, ok := strings.Cut(v, "/")
	if !ok {
		return strings.TrimSpace(v), ""
	}
	return strings.TrimSpace(used), strings.TrimSpace(limit)
}
