package graphics

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const recordingHeader = "PlotpicPictureFile"

// ErrBadRecording is returned when a picture file cannot be parsed.
var ErrBadRecording = errors.New("not a picture file")

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func encodeOp(op Op) string {
	pts := make([]string, len(op.Points))
	for i, p := range op.Points {
		pts[i] = formatFloat(p.X) + ":" + formatFloat(p.Y)
	}
	closed := "0"
	if op.Closed {
		closed = "1"
	}
	fields := []string{
		op.Kind.String(),
		formatFloat(op.Colour.Red) + "," + formatFloat(op.Colour.Green) + "," + formatFloat(op.Colour.Blue),
		formatFloat(op.LineWidth),
		strconv.Itoa(int(op.LineType)),
		closed,
		strings.Join(pts, ";"),
		strconv.Itoa(int(op.Font)),
		strconv.Itoa(op.FontSize),
		strconv.Itoa(int(op.HAlign)),
		strconv.Itoa(int(op.VAlign)),
		formatFloat(op.Rotation),
		strconv.Quote(op.Text),
		strconv.Quote(op.Path),
		formatFloat(op.Box.X1) + "," + formatFloat(op.Box.X2) + "," + formatFloat(op.Box.Y1) + "," + formatFloat(op.Box.Y2),
	}
	return strings.Join(fields, "\t")
}

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d numbers, got %q", n, s)
	}
	vs := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}

func decodeOp(line string) (Op, error) {
	f := strings.Split(line, "\t")
	if len(f) != 14 {
		return Op{}, fmt.Errorf("op has %d fields", len(f))
	}
	var op Op
	switch f[0] {
	case "stroke":
		op.Kind = OpStroke
	case "fill":
		op.Kind = OpFill
	case "text":
		op.Kind = OpText
	case "image":
		op.Kind = OpImage
	default:
		return Op{}, fmt.Errorf("unknown op %q", f[0])
	}

	rgb, err := parseFloats(f[1], 3)
	if err != nil {
		return Op{}, err
	}
	op.Colour = Colour{rgb[0], rgb[1], rgb[2]}

	if op.LineWidth, err = strconv.ParseFloat(f[2], 64); err != nil {
		return Op{}, err
	}
	ints := make([]int, 0, 5)
	for _, s := range []string{f[3], f[6], f[7], f[8], f[9]} {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Op{}, err
		}
		ints = append(ints, n)
	}
	op.LineType = LineType(ints[0])
	op.Font = Font(ints[1])
	op.FontSize = ints[2]
	op.HAlign = HAlign(ints[3])
	op.VAlign = VAlign(ints[4])
	op.Closed = f[4] == "1"

	if f[5] != "" {
		for _, pair := range strings.Split(f[5], ";") {
			x, y, ok := strings.Cut(pair, ":")
			if !ok {
				return Op{}, fmt.Errorf("bad point %q", pair)
			}
			px, err := strconv.ParseFloat(x, 64)
			if err != nil {
				return Op{}, err
			}
			py, err := strconv.ParseFloat(y, 64)
			if err != nil {
				return Op{}, err
			}
			op.Points = append(op.Points, Point{px, py})
		}
	}

	if op.Rotation, err = strconv.ParseFloat(f[10], 64); err != nil {
		return Op{}, err
	}
	if op.Text, err = strconv.Unquote(f[11]); err != nil {
		return Op{}, err
	}
	if op.Path, err = strconv.Unquote(f[12]); err != nil {
		return Op{}, err
	}
	box, err := parseFloats(f[13], 4)
	if err != nil {
		return Op{}, err
	}
	op.Box = Rect{box[0], box[1], box[2], box[3]}

	if op.Kind == OpText && len(op.Points) != 1 {
		return Op{}, errors.New("text op needs one anchor point")
	}
	return op, nil
}

// EncodeRecording writes the display list and its undo groups.
func (g *Graphics) EncodeRecording(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n", recordingHeader)
	fmt.Fprintf(bw, "GROUPS:%d\n", len(g.groups))
	for _, start := range g.groups {
		fmt.Fprintf(bw, "%d\n", start)
	}
	fmt.Fprintf(bw, "OPS:%d\n", len(g.ops))
	for _, op := range g.ops {
		fmt.Fprintf(bw, "%s\n", encodeOp(op))
	}
	return bw.Flush()
}

// WriteRecording saves the picture so that ReadRecording can restore it.
func (g *Graphics) WriteRecording(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := g.EncodeRecording(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func readCount(scanner *bufio.Scanner, prefix string) (int, error) {
	if !scanner.Scan() {
		return 0, fmt.Errorf("%w: missing %s header", ErrBadRecording, prefix)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(scanner.Text(), prefix+":"))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: invalid %s count", ErrBadRecording, strings.ToLower(prefix))
	}
	return n, nil
}

// DecodeRecording replaces the display list with the one read from r. On
// error the current display list is left as it was.
func (g *Graphics) DecodeRecording(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	if !scanner.Scan() || scanner.Text() != recordingHeader {
		return ErrBadRecording
	}

	groupCount, err := readCount(scanner, "GROUPS")
	if err != nil {
		return err
	}
	groups := make([]int, 0, groupCount)
	for i := 0; i < groupCount; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("%w: missing group data", ErrBadRecording)
		}
		start, err := strconv.Atoi(scanner.Text())
		if err != nil {
			return fmt.Errorf("%w: invalid group start", ErrBadRecording)
		}
		groups = append(groups, start)
	}

	opCount, err := readCount(scanner, "OPS")
	if err != nil {
		return err
	}
	ops := make([]Op, 0, opCount)
	for i := 0; i < opCount; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("%w: missing op data", ErrBadRecording)
		}
		op, err := decodeOp(scanner.Text())
		if err != nil {
			return fmt.Errorf("%w: op %d: %v", ErrBadRecording, i+1, err)
		}
		ops = append(ops, op)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	for _, start := range groups {
		if start < 0 || start > len(ops) {
			return fmt.Errorf("%w: group start %d out of range", ErrBadRecording, start)
		}
	}
	g.ops = ops
	g.groups = groups
	return nil
}

// ReadRecording replaces the picture with the one saved in path.
func (g *Graphics) ReadRecording(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return g.DecodeRecording(file)
}
