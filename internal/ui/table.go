package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pubspec-tools/pubassist/internal/core"
)

// Table wraps tabwriter for consistent styling.
type Table struct {
	writer  *tabwriter.Writer
	headers []string
}

// NewTable creates a new table with default styling.
func NewTable(header []string) *Table {
	return NewTableWriter(os.Stdout, header)
}

// NewTableWriter creates a new table that writes to a specific writer.
func NewTableWriter(w io.Writer, header []string) *Table {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	t := &Table{
		writer:  tw,
		headers: header,
	}
	if len(header) > 0 {
		headerRow := make([]string, len(header))
		for i, h := range header {
			headerRow[i] = Bold(strings.ToUpper(h))
		}
		fmt.Fprintln(tw, strings.Join(headerRow, "\t"))
	}
	return t
}

// AddRow adds a row to the table.
func (t *Table) AddRow(row []string) {
	fmt.Fprintln(t.writer, strings.Join(row, "\t"))
}

// Render outputs the table.
func (t *Table) Render() {
	t.writer.Flush()
}

// PrintPackages prints search results in a formatted table.
func PrintPackages(packages []core.Package) {
	if len(packages) == 0 {
		MutedMsg("No packages found")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, Bold("NAME")+"\t"+Bold("VERSION")+"\t"+Bold("POINTS")+"\t"+Bold("LIKES")+"\t"+Bold("POPULARITY")+"\t"+Bold("DESCRIPTION"))

	for _, pkg := range packages {
		name := PackageName.Sprint(pkg.Name)
		if pkg.Flutter {
			name += " " + Muted.Sprint("[flutter]")
		} else if pkg.Dart {
			name += " " + Muted.Sprint("[dart]")
		}

		points := "-"
		if pkg.MaxPoints > 0 {
			points = fmt.Sprintf("%d/%d", pkg.PubPoints, pkg.MaxPoints)
		}

		desc := pkg.Description
		if len(desc) > 60 {
			desc = desc[:57] + "..."
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d%%\t%s\n",
			name, PackageVersion.Sprint(pkg.Latest), points, pkg.Likes, pkg.Popularity, desc)
	}

	w.Flush()
}

// PrintPackageInfo prints detailed information for a single package.
func PrintPackageInfo(pkg *core.Package, details *core.PackageDetails) {
	if pkg == nil {
		ErrorMsg("No package information available")
		return
	}

	HeaderMsg("%s %s", pkg.Name, pkg.Latest)

	if pkg.Description != "" {
		printField("Description", pkg.Description)
	}
	if pkg.Homepage != "" {
		printField("Homepage", pkg.Homepage)
	}
	if pkg.Repository != "" {
		printField("Repository", pkg.Repository)
	}
	if pkg.MaxPoints > 0 {
		printField("Pub points", fmt.Sprintf("%d/%d", pkg.PubPoints, pkg.MaxPoints))
	}
	printField("Likes", fmt.Sprintf("%d", pkg.Likes))
	printField("Popularity", fmt.Sprintf("%d%%", pkg.Popularity))

	var sdks []string
	if pkg.Dart {
		sdks = append(sdks, "dart")
	}
	if pkg.Flutter {
		sdks = append(sdks, "flutter")
	}
	if len(sdks) > 0 {
		printField("SDKs", strings.Join(sdks, ", "))
	}

	if details != nil {
		for env, constraint := range details.Pubspec.Environment {
			printField("Requires "+env, constraint)
		}
		if n := len(details.Versions); n > 0 {
			recent := details.Versions
			if n > 5 {
				recent = recent[n-5:]
			}
			printField("Recent versions", strings.Join(recent, ", "))
		}
	}
}

// PrintDependencies prints a project's dependency table with update status.
func PrintDependencies(deps []core.DependencyInfo) {
	if len(deps) == 0 {
		MutedMsg("No dependencies declared")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, Bold("PACKAGE")+"\t"+Bold("CONSTRAINT")+"\t"+Bold("LATEST")+"\t"+Bold("STATUS"))

	for _, dep := range deps {
		name := PackageName.Sprint(dep.Name)
		if dep.Dev {
			name += " " + DevMarker.Sprint("(dev)")
		}

		latest := dep.Latest
		if latest == "" {
			latest = "-"
		}

		status := UpToDate.Sprint("up to date")
		if dep.Outdated {
			status = Outdated.Sprint("outdated")
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, dep.Constraint, latest, status)
	}

	w.Flush()
}

// PrintOutdated prints only the outdated rows of a dependency list, with the
// suggested upgrade.
func PrintOutdated(deps []core.DependencyInfo) int {
	var rows []core.DependencyInfo
	for _, dep := range deps {
		if dep.Outdated {
			rows = append(rows, dep)
		}
	}
	if len(rows) == 0 {
		SuccessMsg("All dependencies are up to date")
		return 0
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, Bold("PACKAGE")+"\t"+Bold("CONSTRAINT")+"\t"+Bold("LATEST")+"\t"+Bold("UPGRADE"))

	for _, dep := range rows {
		name := PackageName.Sprint(dep.Name)
		if dep.Dev {
			name += " " + DevMarker.Sprint("(dev)")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			name, dep.Constraint, Outdated.Sprint(dep.Latest), PackageVersion.Sprint("^"+dep.Latest))
	}

	w.Flush()
	return len(rows)
}

// PrintProjects prints discovered workspace projects.
func PrintProjects(projects []*core.Project) {
	if len(projects) == 0 {
		MutedMsg("No projects found")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, Bold("PROJECT")+"\t"+Bold("DEPS")+"\t"+Bold("PATH"))

	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%d\t%s\n", PackageName.Sprint(p.Name), len(p.Dependencies), Muted.Sprint(p.Path))
	}

	w.Flush()
}

// PrintConflicts prints detected version conflicts with their suggestions.
func PrintConflicts(conflicts []core.Conflict) {
	if len(conflicts) == 0 {
		SuccessMsg("No version conflicts detected")
		return
	}

	for _, c := range conflicts {
		WarningMsg("%s %s conflicts with %s", Bold(c.Package), c.Declared, c.ConflictsWith)
		if c.Reason != "" {
			MutedMsg("  %s", c.Reason)
		}
		if c.Suggested != "" {
			InfoMsg("suggested: %s %s", c.Package, PackageVersion.Sprint("^"+c.Suggested))
		}
	}
}

// printField prints a single field with formatting.
func printField(label, value string) {
	fmt.Printf("  %s: %s\n", Cyan(label), value)
}
