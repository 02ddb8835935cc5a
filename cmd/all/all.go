package all

import (
	_ "github.com/sagan/sdmeta/cmd/extract"
	_ "github.com/sagan/sdmeta/cmd/schema"
)
