package ast

import (
	"encoding/json"
	"fmt"

	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
)

// Every Expr/Stmt variant marshals to a flat JSON object carrying a "kind"
// discriminator (mirroring the Op-tagged instruction shape used elsewhere
// in this toolchain's JSON formats) plus its own fields; decoding dispatches
// on that tag through DecodeExpr/DecodeStmt. This is what lets a parsed
// tree survive a JSON round trip unchanged: re-decoding a canonical
// encoding always reconstructs the same shape it was written from.

func isJSONNull(data json.RawMessage) bool {
	return len(data) == 0 || string(data) == "null"
}

// DecodeExpr decodes one JSON-encoded expression node, dispatching on its
// "kind" tag. A null/absent payload decodes to (nil, nil), matching the
// optional-child convention used throughout this package (e.g. If.Else).
func DecodeExpr(data json.RawMessage) (Expr, error) {
	if isJSONNull(data) {
		return nil, nil
	}

	var tag struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("ast: decode expr: %w", err)
	}

	var e Expr
	switch tag.Kind {
	case "LiteralExpr":
		e = &LiteralExpr{}
	case "VariableExpr":
		e = &VariableExpr{}
	case "FieldPathExpr":
		e = &FieldPathExpr{}
	case "GroupingExpr":
		e = &GroupingExpr{}
	case "UnaryExpr":
		e = &UnaryExpr{}
	case "BinaryExpr":
		e = &BinaryExpr{}
	case "LogicalExpr":
		e = &LogicalExpr{}
	case "AssignmentExpr":
		e = &AssignmentExpr{}
	case "CallExpr":
		e = &CallExpr{}
	case "GetExpr":
		e = &GetExpr{}
	case "SetExpr":
		e = &SetExpr{}
	case "BetweenExpr":
		e = &BetweenExpr{}
	case "FunctionExpr":
		e = &FunctionExpr{}
	case "SelectExpr":
		e = &SelectExpr{}
	case "InsertExpr":
		e = &InsertExpr{}
	case "UpdateExpr":
		e = &UpdateExpr{}
	case "DeleteExpr":
		e = &DeleteExpr{}
	default:
		return nil, fmt.Errorf("ast: unknown expr kind %q", tag.Kind)
	}

	if err := json.Unmarshal(data, e); err != nil {
		return nil, fmt.Errorf("ast: decode %s: %w", tag.Kind, err)
	}

	return e, nil
}

func decodeExprList(raw []json.RawMessage) ([]Expr, error) {
	if raw == nil {
		return nil, nil
	}

	out := make([]Expr, len(raw))

	for i, r := range raw {
		e, err := DecodeExpr(r)
		if err != nil {
			return nil, err
		}

		out[i] = e
	}

	return out, nil
}

// DecodeStmt decodes one JSON-encoded statement node, dispatching on its
// "kind" tag.
func DecodeStmt(data json.RawMessage) (Stmt, error) {
	if isJSONNull(data) {
		return nil, nil
	}

	var tag struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("ast: decode stmt: %w", err)
	}

	var s Stmt
	switch tag.Kind {
	case "Program":
		s = &Program{}
	case "Block":
		s = &Block{}
	case "ExprStmt":
		s = &ExprStmt{}
	case "Declaration":
		s = &Declaration{}
	case "If":
		s = &If{}
	case "Loop":
		s = &Loop{}
	case "Return":
		s = &Return{}
	case "Break":
		s = &Break{}
	case "Continue":
		s = &Continue{}
	default:
		return nil, fmt.Errorf("ast: unknown stmt kind %q", tag.Kind)
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("ast: decode %s: %w", tag.Kind, err)
	}

	return s, nil
}

func decodeStmtList(raw []json.RawMessage) ([]Stmt, error) {
	if raw == nil {
		return nil, nil
	}

	out := make([]Stmt, len(raw))

	for i, r := range raw {
		s, err := DecodeStmt(r)
		if err != nil {
			return nil, err
		}

		out[i] = s
	}

	return out, nil
}

// --- Literal ---

type objectFieldJSON struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

func literalToJSON(l Literal) (json.RawMessage, error) {
	raw := struct {
		Kind   LitKind           `json:"kind"`
		Str    string            `json:"str,omitempty"`
		Num    float64           `json:"num,omitempty"`
		Bool   bool              `json:"bool,omitempty"`
		Array  []json.RawMessage `json:"array,omitempty"`
		Object []objectFieldJSON `json:"object,omitempty"`
	}{Kind: l.Kind, Str: l.Str, Num: l.Num, Bool: l.Bool}

	for _, el := range l.Array {
		b, err := json.Marshal(el)
		if err != nil {
			return nil, err
		}

		raw.Array = append(raw.Array, b)
	}

	for _, f := range l.Object {
		b, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}

		raw.Object = append(raw.Object, objectFieldJSON{Key: f.Key, Value: b})
	}

	return json.Marshal(raw)
}

func literalFromJSON(data json.RawMessage) (Literal, error) {
	var raw struct {
		Kind   LitKind           `json:"kind"`
		Str    string            `json:"str,omitempty"`
		Num    float64           `json:"num,omitempty"`
		Bool   bool              `json:"bool,omitempty"`
		Array  []json.RawMessage `json:"array,omitempty"`
		Object []objectFieldJSON `json:"object,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Literal{}, err
	}

	lit := Literal{Kind: raw.Kind, Str: raw.Str, Num: raw.Num, Bool: raw.Bool}

	for _, el := range raw.Array {
		e, err := DecodeExpr(el)
		if err != nil {
			return Literal{}, err
		}

		lit.Array = append(lit.Array, e)
	}

	for _, f := range raw.Object {
		v, err := DecodeExpr(f.Value)
		if err != nil {
			return Literal{}, err
		}

		lit.Object = append(lit.Object, ObjectField{Key: f.Key, Value: v})
	}

	return lit, nil
}

// --- Expr variants ---

func (e *LiteralExpr) MarshalJSON() ([]byte, error) {
	value, err := literalToJSON(e.Value)
	if err != nil {
		return nil, err
	}

	return json.Marshal(struct {
		Kind  string          `json:"kind"`
		ID    ExprID          `json:"id"`
		Span  token.Span      `json:"span"`
		Value json.RawMessage `json:"value"`
		Raw   string          `json:"raw"`
	}{"LiteralExpr", e.id, e.span, value, e.Raw})
}

func (e *LiteralExpr) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    ExprID          `json:"id"`
		Span  token.Span      `json:"span"`
		Value json.RawMessage `json:"value"`
		Raw   string          `json:"raw"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	value, err := literalFromJSON(raw.Value)
	if err != nil {
		return err
	}

	*e = LiteralExpr{base: base{raw.ID, raw.Span}, Value: value, Raw: raw.Raw}

	return nil
}

func (e *VariableExpr) MarshalJSON() ([]byte, error) {
	type alias VariableExpr

	return json.Marshal(struct {
		Kind string     `json:"kind"`
		ID   ExprID     `json:"id"`
		Span token.Span `json:"span"`
		*alias
	}{"VariableExpr", e.id, e.span, (*alias)(e)})
}

func (e *VariableExpr) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID   ExprID           `json:"id"`
		Span token.Span       `json:"span"`
		Name token.Identifier `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = VariableExpr{base: base{raw.ID, raw.Span}, Name: raw.Name}

	return nil
}

func (e *FieldPathExpr) MarshalJSON() ([]byte, error) {
	type alias FieldPathExpr

	return json.Marshal(struct {
		Kind string     `json:"kind"`
		ID   ExprID     `json:"id"`
		Span token.Span `json:"span"`
		*alias
	}{"FieldPathExpr", e.id, e.span, (*alias)(e)})
}

func (e *FieldPathExpr) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID   ExprID             `json:"id"`
		Span token.Span         `json:"span"`
		Head token.Identifier   `json:"head"`
		Tail []token.Identifier `json:"tail"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = FieldPathExpr{base: base{raw.ID, raw.Span}, Head: raw.Head, Tail: raw.Tail}

	return nil
}

func (e *GroupingExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  string     `json:"kind"`
		ID    ExprID     `json:"id"`
		Span  token.Span `json:"span"`
		Inner Expr       `json:"inner"`
	}{"GroupingExpr", e.id, e.span, e.Inner})
}

func (e *GroupingExpr) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    ExprID          `json:"id"`
		Span  token.Span      `json:"span"`
		Inner json.RawMessage `json:"inner"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	inner, err := DecodeExpr(raw.Inner)
	if err != nil {
		return err
	}

	*e = GroupingExpr{base: base{raw.ID, raw.Span}, Inner: inner}

	return nil
}

func (e *UnaryExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string     `json:"kind"`
		ID   ExprID     `json:"id"`
		Span token.Span `json:"span"`
		Op   UnaryOp    `json:"op"`
		Expr Expr       `json:"expr"`
	}{"UnaryExpr", e.id, e.span, e.Op, e.Expr})
}

func (e *UnaryExpr) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID   ExprID          `json:"id"`
		Span token.Span      `json:"span"`
		Op   UnaryOp         `json:"op"`
		Expr json.RawMessage `json:"expr"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	inner, err := DecodeExpr(raw.Expr)
	if err != nil {
		return err
	}

	*e = UnaryExpr{base: base{raw.ID, raw.Span}, Op: raw.Op, Expr: inner}

	return nil
}

func (e *BinaryExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  string     `json:"kind"`
		ID    ExprID     `json:"id"`
		Span  token.Span `json:"span"`
		Op    BinaryOp   `json:"op"`
		Left  Expr       `json:"left"`
		Right Expr       `json:"right"`
	}{"BinaryExpr", e.id, e.span, e.Op, e.Left, e.Right})
}

func (e *BinaryExpr) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    ExprID          `json:"id"`
		Span  token.Span      `json:"span"`
		Op    BinaryOp        `json:"op"`
		Left  json.RawMessage `json:"left"`
		Right json.RawMessage `json:"right"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	left, err := DecodeExpr(raw.Left)
	if err != nil {
		return err
	}

	right, err := DecodeExpr(raw.Right)
	if err != nil {
		return err
	}

	*e = BinaryExpr{base: base{raw.ID, raw.Span}, Op: raw.Op, Left: left, Right: right}

	return nil
}

func (e *LogicalExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  string     `json:"kind"`
		ID    ExprID     `json:"id"`
		Span  token.Span `json:"span"`
		Op    LogicalOp  `json:"op"`
		Left  Expr       `json:"left"`
		Right Expr       `json:"right"`
	}{"LogicalExpr", e.id, e.span, e.Op, e.Left, e.Right})
}

func (e *LogicalExpr) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    ExprID          `json:"id"`
		Span  token.Span      `json:"span"`
		Op    LogicalOp       `json:"op"`
		Left  json.RawMessage `json:"left"`
		Right json.RawMessage `json:"right"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	left, err := DecodeExpr(raw.Left)
	if err != nil {
		return err
	}

	right, err := DecodeExpr(raw.Right)
	if err != nil {
		return err
	}

	*e = LogicalExpr{base: base{raw.ID, raw.Span}, Op: raw.Op, Left: left, Right: right}

	return nil
}

func (e *AssignmentExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string           `json:"kind"`
		ID   ExprID           `json:"id"`
		Span token.Span       `json:"span"`
		Dst  token.Identifier `json:"dst"`
		Expr Expr             `json:"expr"`
	}{"AssignmentExpr", e.id, e.span, e.Dst, e.Expr})
}

func (e *AssignmentExpr) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID   ExprID           `json:"id"`
		Span token.Span       `json:"span"`
		Dst  token.Identifier `json:"dst"`
		Expr json.RawMessage  `json:"expr"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	expr, err := DecodeExpr(raw.Expr)
	if err != nil {
		return err
	}

	*e = AssignmentExpr{base: base{raw.ID, raw.Span}, Dst: raw.Dst, Expr: expr}

	return nil
}

func (e *CallExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind   string     `json:"kind"`
		ID     ExprID     `json:"id"`
		Span   token.Span `json:"span"`
		Callee Expr       `json:"callee"`
		Args   []Expr     `json:"args"`
	}{"CallExpr", e.id, e.span, e.Callee, e.Args})
}

func (e *CallExpr) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     ExprID            `json:"id"`
		Span   token.Span        `json:"span"`
		Callee json.RawMessage   `json:"callee"`
		Args   []json.RawMessage `json:"args"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	callee, err := DecodeExpr(raw.Callee)
	if err != nil {
		return err
	}

	args, err := decodeExprList(raw.Args)
	if err != nil {
		return err
	}

	*e = CallExpr{base: base{raw.ID, raw.Span}, Callee: callee, Args: args}

	return nil
}

func (e *GetExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind   string     `json:"kind"`
		ID     ExprID     `json:"id"`
		Span   token.Span `json:"span"`
		Object Expr       `json:"object"`
		Name   string     `json:"name"`
	}{"GetExpr", e.id, e.span, e.Object, e.Name})
}

func (e *GetExpr) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     ExprID          `json:"id"`
		Span   token.Span      `json:"span"`
		Object json.RawMessage `json:"object"`
		Name   string          `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	object, err := DecodeExpr(raw.Object)
	if err != nil {
		return err
	}

	*e = GetExpr{base: base{raw.ID, raw.Span}, Object: object, Name: raw.Name}

	return nil
}

func (e *SetExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind   string     `json:"kind"`
		ID     ExprID     `json:"id"`
		Span   token.Span `json:"span"`
		Object Expr       `json:"object"`
		Name   string     `json:"name"`
		Value  Expr       `json:"value"`
	}{"SetExpr", e.id, e.span, e.Object, e.Name, e.Value})
}

func (e *SetExpr) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     ExprID          `json:"id"`
		Span   token.Span      `json:"span"`
		Object json.RawMessage `json:"object"`
		Name   string          `json:"name"`
		Value  json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	object, err := DecodeExpr(raw.Object)
	if err != nil {
		return err
	}

	value, err := DecodeExpr(raw.Value)
	if err != nil {
		return err
	}

	*e = SetExpr{base: base{raw.ID, raw.Span}, Object: object, Name: raw.Name, Value: value}

	return nil
}

func (e *BetweenExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    string      `json:"kind"`
		ID      ExprID      `json:"id"`
		Span    token.Span  `json:"span"`
		Subject Expr        `json:"subject"`
		Lower   Expr        `json:"lower"`
		Upper   Expr        `json:"upper"`
		Between BetweenKind `json:"between_kind"`
	}{"BetweenExpr", e.id, e.span, e.Subject, e.Lower, e.Upper, e.Kind})
}

func (e *BetweenExpr) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      ExprID          `json:"id"`
		Span    token.Span      `json:"span"`
		Subject json.RawMessage `json:"subject"`
		Lower   json.RawMessage `json:"lower"`
		Upper   json.RawMessage `json:"upper"`
		Between BetweenKind     `json:"between_kind"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	subject, err := DecodeExpr(raw.Subject)
	if err != nil {
		return err
	}

	lower, err := DecodeExpr(raw.Lower)
	if err != nil {
		return err
	}

	upper, err := DecodeExpr(raw.Upper)
	if err != nil {
		return err
	}

	*e = BetweenExpr{base: base{raw.ID, raw.Span}, Subject: subject, Lower: lower, Upper: upper, Kind: raw.Between}

	return nil
}

func (e *FunctionExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind       string            `json:"kind"`
		ID         ExprID            `json:"id"`
		Span       token.Span        `json:"span"`
		Name       *token.Identifier `json:"name,omitempty"`
		Params     []Param           `json:"params"`
		ReturnType *TypeAnnotation   `json:"return_type,omitempty"`
		Body       []Stmt            `json:"body"`
	}{"FunctionExpr", e.id, e.span, e.Name, e.Params, e.ReturnType, e.Body})
}

func (e *FunctionExpr) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         ExprID            `json:"id"`
		Span       token.Span        `json:"span"`
		Name       *token.Identifier `json:"name,omitempty"`
		Params     []Param           `json:"params"`
		ReturnType *TypeAnnotation   `json:"return_type,omitempty"`
		Body       []json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	body, err := decodeStmtList(raw.Body)
	if err != nil {
		return err
	}

	*e = FunctionExpr{
		base:       base{raw.ID, raw.Span},
		Name:       raw.Name,
		Params:     raw.Params,
		ReturnType: raw.ReturnType,
		Body:       body,
	}

	return nil
}

func (e *SelectExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  string     `json:"kind"`
		ID    ExprID     `json:"id"`
		Span  token.Span `json:"span"`
		Query *Select    `json:"query"`
	}{"SelectExpr", e.id, e.span, e.Query})
}

func (e *SelectExpr) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    ExprID     `json:"id"`
		Span  token.Span `json:"span"`
		Query *Select    `json:"query"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = SelectExpr{base: base{raw.ID, raw.Span}, Query: raw.Query}

	return nil
}

func (e *InsertExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind   string     `json:"kind"`
		ID     ExprID     `json:"id"`
		Span   token.Span `json:"span"`
		Insert *Insert    `json:"insert"`
	}{"InsertExpr", e.id, e.span, e.Insert})
}

func (e *InsertExpr) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     ExprID     `json:"id"`
		Span   token.Span `json:"span"`
		Insert *Insert    `json:"insert"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = InsertExpr{base: base{raw.ID, raw.Span}, Insert: raw.Insert}

	return nil
}

func (e *UpdateExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind   string     `json:"kind"`
		ID     ExprID     `json:"id"`
		Span   token.Span `json:"span"`
		Update *Update    `json:"update"`
	}{"UpdateExpr", e.id, e.span, e.Update})
}

func (e *UpdateExpr) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     ExprID     `json:"id"`
		Span   token.Span `json:"span"`
		Update *Update    `json:"update"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = UpdateExpr{base: base{raw.ID, raw.Span}, Update: raw.Update}

	return nil
}

func (e *DeleteExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind   string     `json:"kind"`
		ID     ExprID     `json:"id"`
		Span   token.Span `json:"span"`
		Delete *Delete    `json:"delete"`
	}{"DeleteExpr", e.id, e.span, e.Delete})
}

func (e *DeleteExpr) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     ExprID     `json:"id"`
		Span   token.Span `json:"span"`
		Delete *Delete    `json:"delete"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = DeleteExpr{base: base{raw.ID, raw.Span}, Delete: raw.Delete}

	return nil
}

// --- Stmt variants ---

func (s *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string     `json:"kind"`
		Span token.Span `json:"span"`
		Body []Stmt     `json:"body"`
	}{"Program", s.span, s.Body})
}

func (s *Program) UnmarshalJSON(data []byte) error {
	var raw struct {
		Span token.Span        `json:"span"`
		Body []json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	body, err := decodeStmtList(raw.Body)
	if err != nil {
		return err
	}

	*s = Program{stmtBase: stmtBase{raw.Span}, Body: body}

	return nil
}

func (s *Block) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string     `json:"kind"`
		Span token.Span `json:"span"`
		Body []Stmt     `json:"body"`
	}{"Block", s.span, s.Body})
}

func (s *Block) UnmarshalJSON(data []byte) error {
	var raw struct {
		Span token.Span        `json:"span"`
		Body []json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	body, err := decodeStmtList(raw.Body)
	if err != nil {
		return err
	}

	*s = Block{stmtBase: stmtBase{raw.Span}, Body: body}

	return nil
}

func (s *ExprStmt) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string     `json:"kind"`
		Span token.Span `json:"span"`
		Expr Expr       `json:"expr"`
	}{"ExprStmt", s.span, s.Expr})
}

func (s *ExprStmt) UnmarshalJSON(data []byte) error {
	var raw struct {
		Span token.Span      `json:"span"`
		Expr json.RawMessage `json:"expr"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	expr, err := DecodeExpr(raw.Expr)
	if err != nil {
		return err
	}

	*s = ExprStmt{stmtBase: stmtBase{raw.Span}, Expr: expr}

	return nil
}

func (s *Declaration) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string           `json:"kind"`
		Span token.Span       `json:"span"`
		Dst  token.Identifier `json:"dst"`
		Expr Expr             `json:"expr"`
	}{"Declaration", s.span, s.Dst, s.Expr})
}

func (s *Declaration) UnmarshalJSON(data []byte) error {
	var raw struct {
		Span token.Span       `json:"span"`
		Dst  token.Identifier `json:"dst"`
		Expr json.RawMessage  `json:"expr"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	expr, err := DecodeExpr(raw.Expr)
	if err != nil {
		return err
	}

	*s = Declaration{stmtBase: stmtBase{raw.Span}, Dst: raw.Dst, Expr: expr}

	return nil
}

func (s *If) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind      string     `json:"kind"`
		Span      token.Span `json:"span"`
		Condition Expr       `json:"condition"`
		Body      Stmt       `json:"body"`
		Else      Stmt       `json:"else,omitempty"`
	}{"If", s.span, s.Condition, s.Body, s.Else})
}

func (s *If) UnmarshalJSON(data []byte) error {
	var raw struct {
		Span      token.Span      `json:"span"`
		Condition json.RawMessage `json:"condition"`
		Body      json.RawMessage `json:"body"`
		Else      json.RawMessage `json:"else,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	cond, err := DecodeExpr(raw.Condition)
	if err != nil {
		return err
	}

	body, err := DecodeStmt(raw.Body)
	if err != nil {
		return err
	}

	elseBody, err := DecodeStmt(raw.Else)
	if err != nil {
		return err
	}

	*s = If{stmtBase: stmtBase{raw.Span}, Condition: cond, Body: body, Else: elseBody}

	return nil
}

func (s *Loop) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind      string     `json:"kind"`
		Span      token.Span `json:"span"`
		Condition Expr       `json:"condition,omitempty"`
		Body      Stmt       `json:"body"`
		Post      Stmt       `json:"post,omitempty"`
	}{"Loop", s.span, s.Condition, s.Body, s.Post})
}

func (s *Loop) UnmarshalJSON(data []byte) error {
	var raw struct {
		Span      token.Span      `json:"span"`
		Condition json.RawMessage `json:"condition,omitempty"`
		Body      json.RawMessage `json:"body"`
		Post      json.RawMessage `json:"post,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	cond, err := DecodeExpr(raw.Condition)
	if err != nil {
		return err
	}

	body, err := DecodeStmt(raw.Body)
	if err != nil {
		return err
	}

	post, err := DecodeStmt(raw.Post)
	if err != nil {
		return err
	}

	*s = Loop{stmtBase: stmtBase{raw.Span}, Condition: cond, Body: body, Post: post}

	return nil
}

func (s *Return) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string     `json:"kind"`
		Span token.Span `json:"span"`
		Expr Expr       `json:"expr,omitempty"`
	}{"Return", s.span, s.Expr})
}

func (s *Return) UnmarshalJSON(data []byte) error {
	var raw struct {
		Span token.Span      `json:"span"`
		Expr json.RawMessage `json:"expr,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	expr, err := DecodeExpr(raw.Expr)
	if err != nil {
		return err
	}

	*s = Return{stmtBase: stmtBase{raw.Span}, Expr: expr}

	return nil
}

func (s *Break) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string     `json:"kind"`
		Span token.Span `json:"span"`
	}{"Break", s.span})
}

func (s *Break) UnmarshalJSON(data []byte) error {
	var raw struct {
		Span token.Span `json:"span"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Break{stmtBase: stmtBase{raw.Span}}

	return nil
}

func (s *Continue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string     `json:"kind"`
		Span token.Span `json:"span"`
	}{"Continue", s.span})
}

func (s *Continue) UnmarshalJSON(data []byte) error {
	var raw struct {
		Span token.Span `json:"span"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Continue{stmtBase: stmtBase{raw.Span}}

	return nil
}

// --- SQL sub-tree containers ---
//
// Select and Compound need no overrides: every field holding an Expr or
// Stmt is itself a type defined in this file, so the standard decoder
// already knows how to unmarshal into it.

func (t *OrderTerm) UnmarshalJSON(data []byte) error {
	var raw struct {
		Expr json.RawMessage `json:"expr"`
		Dir  OrderDir        `json:"dir"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	expr, err := DecodeExpr(raw.Expr)
	if err != nil {
		return err
	}

	*t = OrderTerm{Expr: expr, Dir: raw.Dir}

	return nil
}

func (p *Projected) UnmarshalJSON(data []byte) error {
	var raw struct {
		Expr  json.RawMessage `json:"expr,omitempty"`
		Alias string          `json:"alias,omitempty"`
		Star  bool             `json:"star,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	expr, err := DecodeExpr(raw.Expr)
	if err != nil {
		return err
	}

	*p = Projected{Expr: expr, Alias: raw.Alias, Star: raw.Star}

	return nil
}

func (c *SelectCore) UnmarshalJSON(data []byte) error {
	var raw struct {
		Distinct   bool              `json:"distinct,omitempty"`
		Projection []Projected       `json:"projection"`
		From       *FromClause       `json:"from,omitempty"`
		Where      json.RawMessage   `json:"where,omitempty"`
		GroupBy    []json.RawMessage `json:"group_by,omitempty"`
		Having     json.RawMessage   `json:"having,omitempty"`
		Compound   *Compound         `json:"compound,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	where, err := DecodeExpr(raw.Where)
	if err != nil {
		return err
	}

	having, err := DecodeExpr(raw.Having)
	if err != nil {
		return err
	}

	groupBy, err := decodeExprList(raw.GroupBy)
	if err != nil {
		return err
	}

	*c = SelectCore{
		Distinct:   raw.Distinct,
		Projection: raw.Projection,
		From:       raw.From,
		Where:      where,
		GroupBy:    groupBy,
		Having:     having,
		Compound:   raw.Compound,
	}

	return nil
}

func (l *LimitClause) UnmarshalJSON(data []byte) error {
	var raw struct {
		Count  json.RawMessage `json:"count"`
		Offset json.RawMessage `json:"offset,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	count, err := DecodeExpr(raw.Count)
	if err != nil {
		return err
	}

	offset, err := DecodeExpr(raw.Offset)
	if err != nil {
		return err
	}

	*l = LimitClause{Count: count, Offset: offset}

	return nil
}

func (f *FromClause) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind FromSourceKind `json:"kind"`

		Name  string `json:"name,omitempty"`
		Alias string `json:"alias,omitempty"`

		SourceExpr json.RawMessage `json:"source_expr,omitempty"`

		Subquery *Select `json:"subquery,omitempty"`

		Left       *FromClause     `json:"left,omitempty"`
		Right      *FromClause     `json:"right,omitempty"`
		JoinKind   JoinType        `json:"join_kind,omitempty"`
		Constraint json.RawMessage `json:"constraint,omitempty"`

		Items []*FromClause `json:"items,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	sourceExpr, err := DecodeExpr(raw.SourceExpr)
	if err != nil {
		return err
	}

	constraint, err := DecodeExpr(raw.Constraint)
	if err != nil {
		return err
	}

	*f = FromClause{
		Kind:       raw.Kind,
		Name:       raw.Name,
		Alias:      raw.Alias,
		SourceExpr: sourceExpr,
		Subquery:   raw.Subquery,
		Left:       raw.Left,
		Right:      raw.Right,
		JoinKind:   raw.JoinKind,
		Constraint: constraint,
		Items:      raw.Items,
	}

	return nil
}

func (i *Insert) UnmarshalJSON(data []byte) error {
	var raw struct {
		Into    string              `json:"into"`
		Columns []string            `json:"columns,omitempty"`
		Values  [][]json.RawMessage `json:"values,omitempty"`
		Query   *Select             `json:"query,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var values [][]Expr
	if raw.Values != nil {
		values = make([][]Expr, len(raw.Values))

		for i, row := range raw.Values {
			r, err := decodeExprList(row)
			if err != nil {
				return err
			}

			values[i] = r
		}
	}

	*i = Insert{Into: raw.Into, Columns: raw.Columns, Values: values, Query: raw.Query}

	return nil
}

func (u *Update) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name  string          `json:"name"`
		Set   []SetField      `json:"set"`
		Where json.RawMessage `json:"where,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	where, err := DecodeExpr(raw.Where)
	if err != nil {
		return err
	}

	*u = Update{Name: raw.Name, Set: raw.Set, Where: where}

	return nil
}

func (sf *SetField) UnmarshalJSON(data []byte) error {
	var raw struct {
		Column string          `json:"column"`
		Value  json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	value, err := DecodeExpr(raw.Value)
	if err != nil {
		return err
	}

	*sf = SetField{Column: raw.Column, Value: value}

	return nil
}

func (d *Delete) UnmarshalJSON(data []byte) error {
	var raw struct {
		From  string          `json:"from"`
		Where json.RawMessage `json:"where,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	where, err := DecodeExpr(raw.Where)
	if err != nil {
		return err
	}

	*d = Delete{From: raw.From, Where: where}

	return nil
}
