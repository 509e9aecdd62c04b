package vpn

import (
	"context"
	"fmt"
	"strings"

	"github.com/yllada/windscribe-client/common"
	"github.com/yllada/windscribe-client/output"
)

// BestLabel asks the client to pick the best location itself.
const BestLabel = "best"

type selectorKind int

const (
	selectBest selectorKind = iota
	selectRandom
	selectLabel
)

// LocationSelector chooses the location for Connect. The zero value selects
// the best location.
type LocationSelector struct {
	kind  selectorKind
	label string
}

// Best lets the external client choose.
func Best() LocationSelector { return LocationSelector{kind: selectBest} }

// Random picks uniformly among the locations the client currently lists.
func Random() LocationSelector { return LocationSelector{kind: selectRandom} }

// ByLabel connects to the location with the given label, e.g. "CA Toronto".
func ByLabel(label string) LocationSelector {
	return LocationSelector{kind: selectLabel, label: label}
}

// ByLocation connects to loc by its label.
func ByLocation(loc output.Location) LocationSelector {
	return ByLabel(loc.Label)
}

func (s LocationSelector) String() string {
	switch s.kind {
	case selectRandom:
		return "random"
	case selectLabel:
		return fmt.Sprintf("label %q", s.label)
	default:
		return BestLabel
	}
}

// resolveLabel turns the selector into the single label passed to connect.
func (c *Client) resolveLabel(ctx context.Context, sel LocationSelector) (string, error) {
	switch sel.kind {
	case selectBest:
		return BestLabel, nil

	case selectRandom:
		locations, err := c.Locations(ctx)
		if err != nil {
			return "", err
		}
		if len(locations) == 0 {
			return "", common.NewOutputError(common.ErrUnsupportedOutput, "", "no locations to choose from", nil)
		}
		choice := locations[c.opts.Picker(len(locations))]
		c.log.Debug("random location: %s", choice)
		return choice.Label, nil

	case selectLabel:
		label := strings.TrimSpace(output.Sanitize(sel.label))
		if label == "" {
			return "", fmt.Errorf("empty location label")
		}
		return label, nil
	}

	return "", fmt.Errorf("unknown location selector %d", sel.kind)
}
