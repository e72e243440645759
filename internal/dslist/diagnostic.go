// SPDX-License-Identifier: MPL-2.0

package dslist

import "github.com/invowk/dsidentify/pkg/types"

const (
	// SeverityWarning marks a source or element that was skipped.
	SeverityWarning Severity = "warning"
	// SeverityError marks a source that could not be read at all.
	SeverityError Severity = "error"

	// CodeReadFailed is reported when a configuration file exists but
	// cannot be read.
	CodeReadFailed Code = "config_read_failed"
	// CodeParseFailed is reported for files that are not valid YAML.
	CodeParseFailed Code = "config_parse_failed"
	// CodeNotMapping is reported when the top-level document is not a mapping.
	CodeNotMapping Code = "config_not_mapping"
	// CodeListNotSequence is reported when datasource_list is not a sequence.
	CodeListNotSequence Code = "datasource_list_not_sequence"
	// CodeElementSkipped is reported for every non-string list element.
	CodeElementSkipped Code = "datasource_list_element_skipped"
	// CodeFragmentDirUnreadable is reported when cloud.cfg.d exists but
	// cannot be listed.
	CodeFragmentDirUnreadable Code = "fragment_dir_unreadable"
)

type (
	// Severity represents diagnostic severity.
	Severity string

	// Code is a machine-readable diagnostic identifier.
	Code string

	// Diagnostic describes a configuration source that did not contribute
	// to the result. It is returned to callers rather than logged here so
	// the CLI decides how to render it.
	Diagnostic struct {
		Severity Severity
		Code     Code
		Message  string
		// Path is the file the diagnostic refers to, relative to the root.
		Path types.FilesystemPath
		// Cause is the underlying error, if any.
		Cause error
	}
)

func (s Severity) String() string { return string(s) }

func (c Code) String() string { return string(c) }
