package proposal

import "fmt"

// ConsentPolicy selects how a draft becomes the confirmed schedule. It is
// fixed once at deployment; the engine never mixes policies.
type ConsentPolicy string

const (
	// PolicyBilateral requires both parties to accept; the merge happens
	// the moment the second flag is set.
	PolicyBilateral ConsentPolicy = "bilateral"

	// PolicySingle merges on the first accept from either party.
	PolicySingle ConsentPolicy = "single"

	// PolicyDuel gives each party their own draft; the counterpart either
	// responds with a counter-draft or accepts outright.
	PolicyDuel ConsentPolicy = "duel"
)

// ParsePolicy parses a policy name. An empty string selects bilateral.
func ParsePolicy(s string) (ConsentPolicy, error) {
	switch ConsentPolicy(s) {
	case "":
		return PolicyBilateral, nil
	case PolicyBilateral, PolicySingle, PolicyDuel:
		return ConsentPolicy(s), nil
	}
	return "", fmt.Errorf("unknown consent policy %q", s)
}
