package cyrfix

import (
	"github.com/simonhull/cyrfix/internal/types"
)

// Tags is an alias to types.Tags.
type Tags = types.Tags
