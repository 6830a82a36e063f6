package assert

import "fmt"

// NotNil panics if value is nil, `name` is what shows up in the panic message.
func NotNil(value any, name string) {
	if value == nil {
		panic(fmt.Sprintf("expected %s to be not nil", name))
	}
}
