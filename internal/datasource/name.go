// SPDX-License-Identifier: MPL-2.0

package datasource

import (
	"errors"
	"fmt"
)

// Supported datasource names, as cloud-init spells them.
const (
	AliYun      Name = "AliYun"
	Azure       Name = "Azure"
	ConfigDrive Name = "ConfigDrive"
	Ec2         Name = "Ec2"
	Exoscale    Name = "Exoscale"
	GCE         Name = "GCE"
	NoCloud     Name = "NoCloud"
	Oracle      Name = "Oracle"

	// None is the sentinel that terminates every result: no further
	// platform matched, fall back to local configuration.
	None Name = "None"
)

const (
	kindUnknown kind = iota
	kindAliYun
	kindAzure
	kindConfigDrive
	kindEc2
	kindExoscale
	kindGCE
	kindNoCloud
	kindOracle
	kindNone
)

// ErrInvalidDatasourceName is the sentinel error wrapped by InvalidNameError.
var ErrInvalidDatasourceName = errors.New("invalid datasource name")

// defaultList is the built-in candidate list used when no configuration
// defines datasource_list. Its order is fixed.
var defaultList = [...]Name{AliYun, Azure, ConfigDrive, Ec2, Exoscale, GCE, NoCloud, Oracle}

var kinds = map[Name]kind{
	AliYun:      kindAliYun,
	Azure:       kindAzure,
	ConfigDrive: kindConfigDrive,
	Ec2:         kindEc2,
	Exoscale:    kindExoscale,
	GCE:         kindGCE,
	NoCloud:     kindNoCloud,
	Oracle:      kindOracle,
	None:        kindNone,
}

type (
	// Name is a datasource name as it appears in datasource_list. Any string
	// is a Name; names outside the supported set never match.
	Name string

	// kind is the closed enumeration Names are parsed into at the boundary.
	kind int

	// InvalidNameError is returned by Validate for unsupported names.
	InvalidNameError struct {
		Value Name
	}
)

// DefaultList returns a copy of the built-in candidate list.
func DefaultList() []Name {
	out := make([]Name, len(defaultList))
	copy(out, defaultList[:])
	return out
}

// Names converts raw strings to Names without filtering.
func Names(raw []string) []Name {
	out := make([]Name, len(raw))
	for i, s := range raw {
		out[i] = Name(s)
	}
	return out
}

// Strings converts Names back to raw strings.
func Strings(names []Name) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}

// String returns the name.
func (n Name) String() string { return string(n) }

// IsKnown reports whether n is a supported datasource or the sentinel.
func (n Name) IsKnown() bool { return n.kind() != kindUnknown }

// Validate returns an *InvalidNameError when n is not supported.
func (n Name) Validate() error {
	if !n.IsKnown() {
		return &InvalidNameError{Value: n}
	}
	return nil
}

func (n Name) kind() kind {
	return kinds[n]
}

// Error implements the error interface.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("unsupported datasource %q", e.Value)
}

// Unwrap returns ErrInvalidDatasourceName for errors.Is() compatibility.
func (e *InvalidNameError) Unwrap() error { return ErrInvalidDatasourceName }
