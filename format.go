package structdiff

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

const (
	colorClose   = "\x1b[0m"
	colorNeutral = "\x1b[37m"
	colorInsert  = "\x1b[32m"
	colorDelete  = "\x1b[31m"
	colorUpdate  = "\x1b[34m"
	colorType    = "\x1b[35m"
)

// FormatPrettyString is a convenice wrapper that outputs to a string instead of
// an io.Writer
func FormatPrettyString(edits Edits, colorTTY bool) (string, error) {
	buf := &bytes.Buffer{}
	if err := FormatPretty(buf, edits, colorTTY); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatPretty writes a text report to w, one line per edit. if colorTTY is
// true it will add
// red "-" for removals
// green "+" for additions
// blue "~" for changes
// magenta "!" & "#" for type & arity changes
func FormatPretty(w io.Writer, edits Edits, colorTTY bool) error {
	var colorMap map[Operation]string
	if colorTTY {
		colorMap = map[Operation]string{
			OpAdded:        colorInsert,
			OpRemoved:      colorDelete,
			OpChanged:      colorUpdate,
			OpTypeChanged:  colorType,
			OpArityChanged: colorType,
		}
	}

	closer := ""
	if colorMap != nil {
		closer = colorClose
	}

	for _, e := range edits {
		var desc string
		switch x := e.(type) {
		case Added:
			desc = formatValue(x.Value)
		case Removed:
			desc = formatValue(x.Value)
		case Changed:
			desc = formatValue(x.Old) + " -> " + formatValue(x.New)
		case TypeChanged:
			desc = formatValue(x.Old) + " -> " + formatValue(x.New)
		case ArityChanged:
			desc = fmt.Sprintf("%d -> %d", x.Old, x.New)
		}
		if _, err := fmt.Fprintf(w, "%s%s %s: %s%s\n", colorMap[e.Op()], e.Op(), e.Location(), desc, closer); err != nil {
			return err
		}
	}
	return nil
}

func formatValue(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		// funcs, chans & the like can't be encoded
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// FormatPrettyStats prints a string of stats info
func FormatPrettyStats(diffStat *Stats) string {
	return formatStats(diffStat, false)
}

// FormatPrettyStatsColor prints a string of stats info with ANSI colors
func FormatPrettyStatsColor(diffStat *Stats) string {
	return formatStats(diffStat, true)
}

func formatStats(ds *Stats, color bool) string {
	var (
		neutralColor, insertColor, deleteColor, updateColor, typeColor, closeColor string
	)

	if ds == nil {
		return ""
	}

	if color {
		neutralColor = colorNeutral
		insertColor = colorInsert
		deleteColor = colorDelete
		updateColor = colorUpdate
		typeColor = colorType
		closeColor = colorClose
	}

	buf := &bytes.Buffer{}

	elsColor := insertColor
	change := ds.NodeChange()
	sign := "+"
	if change < 0 {
		elsColor = deleteColor
		sign = ""
	} else if change == 0 {
		elsColor = neutralColor
		sign = ""
	}

	buf.WriteString(fmt.Sprintf("%s%s%d %s%s%s%s.",
		elsColor, sign, change, closeColor,
		neutralColor, plural(change, "element", "elements"), closeColor,
	))
	buf.WriteString(fmt.Sprintf(" %s%d %s.%s", insertColor, ds.Added, plural(ds.Added, "addition", "additions"), closeColor))
	buf.WriteString(fmt.Sprintf(" %s%d %s.%s", deleteColor, ds.Removed, plural(ds.Removed, "removal", "removals"), closeColor))
	buf.WriteString(fmt.Sprintf(" %s%d %s.%s", updateColor, ds.Changed, plural(ds.Changed, "change", "changes"), closeColor))

	if ds.TypeChanged > 0 {
		buf.WriteString(fmt.Sprintf(" %s%d %s.%s", typeColor, ds.TypeChanged, plural(ds.TypeChanged, "type change", "type changes"), closeColor))
	}
	if ds.ArityChanged > 0 {
		buf.WriteString(fmt.Sprintf(" %s%d %s.%s", typeColor, ds.ArityChanged, plural(ds.ArityChanged, "arity change", "arity changes"), closeColor))
	}

	buf.WriteRune('\n')

	return buf.String()
}

func plural(n int, one, many string) string {
	if n == 1 || n == -1 {
		return one
	}
	return many
}
