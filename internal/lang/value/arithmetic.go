package value

// Add implements the §4.4 '+' coercion rules: numeric add between two
// numbers (division-by-zero rules live in Div, not here); string
// concatenation when either side is a string, using the other side's
// textual form.
func Add(a, b Value) Value {
	if a.kind == KindNum && b.kind == KindNum {
		return Num(a.num + b.num)
	}
	if a.kind == KindStr || b.kind == KindStr {
		return Str(textual(a) + textual(b))
	}
	return Undefined()
}

func textual(v Value) string {
	switch v.kind {
	case KindStr:
		return v.str
	case KindNum:
		return formatNum(v.num)
	case KindBool:
		if v.boolean {
			return "true"
		}
		return "false"
	default:
		return v.String()
	}
}

// Sub/Mul are plain numeric ops; non-numeric operands yield Undefined.
func Sub(a, b Value) Value {
	if a.kind == KindNum && b.kind == KindNum {
		return Num(a.num - b.num)
	}
	return Undefined()
}

func Mul(a, b Value) Value {
	if a.kind == KindNum && b.kind == KindNum {
		return Num(a.num * b.num)
	}
	return Undefined()
}

// Div implements the §4.4 division rules: 0/0 is Undefined; any other
// division by zero is ±∞, matching IEEE-754 float division directly.
func Div(a, b Value) Value {
	if a.kind != KindNum || b.kind != KindNum {
		return Undefined()
	}
	if a.num == 0 && b.num == 0 {
		return Undefined()
	}
	return Num(a.num / b.num)
}
