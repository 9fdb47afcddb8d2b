// Package autoload registers every built-in completion provider with the
// llm registry via blank imports. Import it for side effects only.
package autoload

import (
	_ "maestro/pkg/llm/geminip"
	_ "maestro/pkg/llm/ollamap"
	_ "maestro/pkg/llm/openaip"
)
