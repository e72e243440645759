// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const datasourcesDoc HttpLink = "https://cloudinit.readthedocs.io/en/latest/reference/datasources.html"

const (
	ConfigLoadFailedId Id = iota + 1
	InvalidRootId
	OutputDirCreateFailedId
	OutputWriteFailedId
	SerializeFailedId
	PermissionDeniedId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Renderer interface {
		Render(in string, stylePath string) (string, error)
	}

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink
		extLinks []HttpLink // external links that might be useful for the user
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue Markdown, followed by its links, with the given
// glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("\n- <" + string(link) + ">")
		}
		for _, link := range i.extLinks {
			md.WriteString("\n- <" + string(link) + ">")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Invalid ds-identify settings!

The flags or environment variables given to ds-identify could not be used.

## Settings and where they come from (highest precedence first):
- ` + "`--root`" + `, else ` + "`PATH_ROOT`" + `, else ` + "`/`" + `
- ` + "`--log-format`" + `, else ` + "`DS_IDENTIFY_LOG_FORMAT`" + ` (text, json or logfmt)
- ` + "`--verbose`" + `, else ` + "`DS_IDENTIFY_VERBOSE`" + `

## Things you can try:
- Check the error above for the offending setting
- Unset stray environment variables:
~~~
$ env | grep -E '^(PATH_ROOT|DS_IDENTIFY_)'
~~~`,
		docLinks: []HttpLink{datasourcesDoc},
	}

	invalidRootIssue = &Issue{
		id: InvalidRootId,
		mdMsg: `
# Invalid root prefix!

Every path ds-identify reads or writes is resolved below the root prefix, so
it has to name a directory.

## Things you can try:
- Pass an existing directory:
~~~
$ ds-identify --root /mnt/target
~~~

- Or leave ` + "`PATH_ROOT`" + ` unset to use ` + "`/`",
		docLinks: []HttpLink{datasourcesDoc},
	}

	outputDirCreateFailedIssue = &Issue{
		id: OutputDirCreateFailedId,
		mdMsg: `
# Could not create the output directory!

ds-identify writes its decision to ` + "`run/cloud-init/cloud.cfg`" + ` below the
root prefix, creating ` + "`run/cloud-init`" + ` when it is missing.

## Things you can try:
- Make sure ` + "`/run`" + ` is mounted and writable (it is normally a tmpfs)
- When using ` + "`--root`" + `, check that the prefix is writable
- Preview the result without writing anything:
~~~
$ ds-identify --dry-run
~~~`,
		docLinks: []HttpLink{datasourcesDoc},
	}

	outputWriteFailedIssue = &Issue{
		id: OutputWriteFailedId,
		mdMsg: `
# Could not write the datasource configuration!

The output directory exists but ` + "`cloud.cfg`" + ` could not be created or written.

## Things you can try:
- Check permissions and free space on the output directory
- Remove a stale file that is not writable:
~~~
$ rm /run/cloud-init/cloud.cfg
~~~`,
		docLinks: []HttpLink{datasourcesDoc},
	}

	serializeFailedIssue = &Issue{
		id: SerializeFailedId,
		mdMsg: `
# Could not render the datasource list!

The detection result could not be encoded as YAML. This is a bug; please
report it together with the output of:
~~~
$ ds-identify --verbose --dry-run
~~~`,
		docLinks: []HttpLink{datasourcesDoc},
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

ds-identify is normally run by the cloud-init generator as root.

## Things you can try:
- Run it as root:
~~~
$ sudo ds-identify
~~~

- Or point it at a tree you own:
~~~
$ ds-identify --root "$HOME/rootfs"
~~~`,
		docLinks: []HttpLink{datasourcesDoc},
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		invalidRootIssue.Id():           invalidRootIssue,
		outputDirCreateFailedIssue.Id(): outputDirCreateFailedIssue,
		outputWriteFailedIssue.Id():     outputWriteFailedIssue,
		serializeFailedIssue.Id():       serializeFailedIssue,
		permissionDeniedIssue.Id():      permissionDeniedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
