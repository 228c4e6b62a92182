package static

import _ "embed"

// IntegrationMd is the integration guide for systems that emit workflow events.
//
//go:embed integration.md
var IntegrationMd string
