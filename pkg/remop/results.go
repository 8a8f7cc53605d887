package remop

import "github.com/remoteops/remop/internal/bytecode"

// ResponseToken names one requested result. Tokens are only meaningful
// against the ResultSet of the operation that issued them.
type ResponseToken struct {
	operand bytecode.OperandId
}

// ResultSet holds the outcome of one executed operation: the final
// status and the values of the operands requested with RequestResponse.
type ResultSet struct {
	status  int32
	results map[bytecode.OperandId]bytecode.Value
}

// OperationStatus is the program's final status: zero for success, a
// failure code when execution failed, or the value passed to
// ReturnOperationStatus when the program halted itself.
func (r *ResultSet) OperationStatus() int32 { return r.status }

// Has reports whether the token's value came back.
func (r *ResultSet) Has(tok ResponseToken) bool {
	_, ok := r.results[tok.operand]
	return ok
}

// Value returns the raw value for a token.
func (r *ResultSet) Value(tok ResponseToken) (Value, bool) {
	v, ok := r.results[tok.operand]
	return v, ok
}

// Int returns the token's value as an int32. ok is false when the value
// is missing or not an int.
func (r *ResultSet) Int(tok ResponseToken) (int32, bool) {
	if v, ok := r.results[tok.operand].(*bytecode.Int); ok {
		return v.Val, true
	}
	return 0, false
}

// Bool returns the token's value as a bool.
func (r *ResultSet) Bool(tok ResponseToken) (bool, bool) {
	if v, ok := r.results[tok.operand].(*bytecode.Bool); ok {
		return v.Val, true
	}
	return false, false
}

// Double returns the token's value as a float64.
func (r *ResultSet) Double(tok ResponseToken) (float64, bool) {
	if v, ok := r.results[tok.operand].(*bytecode.Double); ok {
		return v.Val, true
	}
	return 0, false
}

// String returns the token's value as a string.
func (r *ResultSet) String(tok ResponseToken) (string, bool) {
	if v, ok := r.results[tok.operand].(*bytecode.String); ok {
		return v.Val, true
	}
	return "", false
}
