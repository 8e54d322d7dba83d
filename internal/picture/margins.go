package picture

import (
	"plotpic/internal/graphics"
	"plotpic/internal/viewport"
)

// axis returns the world axis a side of the inner viewport is marked along.
func axis(side graphics.Side) viewport.Axis {
	if side == graphics.Left || side == graphics.Right {
		return viewport.Vertical
	}
	return viewport.Horizontal
}

func (p *Picture) DrawInnerBox() {
	p.draw(false, func(g *graphics.Graphics) { g.DrawInnerBox() })
}

// MarginText writes text in the margin at side. Far text goes near the outer
// edge of the margin.
func (p *Picture) MarginText(side graphics.Side, far bool, text string) {
	p.draw(false, func(g *graphics.Graphics) {
		switch side {
		case graphics.Left:
			g.TextLeft(far, text)
		case graphics.Right:
			g.TextRight(far, text)
		case graphics.Top:
			g.TextTop(far, text)
		default:
			g.TextBottom(far, text)
		}
	})
}

// MarksEvery marks side at every multiple of units*distance.
func (p *Picture) MarksEvery(side graphics.Side, units, distance float64, st graphics.MarkStyle) error {
	if err := positive("units", units); err != nil {
		return err
	}
	if err := positive("distance", distance); err != nil {
		return err
	}
	if err := p.checkMarks(func(g *graphics.Graphics) error {
		_, err := g.EveryPositions(side, units, distance)
		return err
	}); err != nil {
		return err
	}
	var err error
	p.draw(false, func(g *graphics.Graphics) { err = g.MarksEvery(side, units, distance, st) })
	return err
}

// Marks puts n equally spaced marks along side, ends included.
func (p *Picture) Marks(side graphics.Side, n int, st graphics.MarkStyle) error {
	if n < 2 {
		return invalid("the number of marks must be at least 2, not %d", n)
	}
	if n > graphics.MaxMarks {
		return invalid("the number of marks must be at most %d, not %d", graphics.MaxMarks, n)
	}
	var err error
	p.draw(false, func(g *graphics.Graphics) { err = g.Marks(side, n, st) })
	return err
}

func (p *Picture) MarksLogarithmic(side graphics.Side, perDecade int, st graphics.MarkStyle) error {
	if perDecade < 1 {
		return invalid("the number of marks per decade must be at least 1, not %d", perDecade)
	}
	if err := p.checkMarks(func(g *graphics.Graphics) error {
		_, err := g.LogarithmicValues(side, perDecade)
		return err
	}); err != nil {
		return err
	}
	var err error
	p.draw(false, func(g *graphics.Graphics) { err = g.MarksLogarithmic(side, perDecade, st) })
	return err
}

// checkMarks works out where marks would go before anything is drawn, so a
// command that cannot place its marks leaves no undo group behind.
func (p *Picture) checkMarks(fn func(g *graphics.Graphics) error) error {
	var err error
	p.scope(false, func(g *graphics.Graphics) { err = fn(g) })
	if err != nil {
		return &viewport.InvalidRangeError{Msg: err.Error(), Err: err}
	}
	return nil
}

// OneMark draws a single mark. A non-empty text is written instead of the
// number.
func (p *Picture) OneMark(side graphics.Side, position float64, st graphics.MarkStyle, text string) error {
	if err := p.state.CheckMarkPosition(axis(side), position); err != nil {
		return err
	}
	p.draw(false, func(g *graphics.Graphics) { g.Mark(side, position, st, text) })
	return nil
}

// OneLogarithmicMark draws a single mark on a logarithmic axis at value.
func (p *Picture) OneLogarithmicMark(side graphics.Side, value float64, st graphics.MarkStyle, text string) error {
	if err := p.state.CheckLogMarkPosition(axis(side), value); err != nil {
		return err
	}
	p.draw(false, func(g *graphics.Graphics) { g.MarkLogarithmic(side, value, st, text) })
	return nil
}
