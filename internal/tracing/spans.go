package tracing

// Span names.
const (
	SpanContractBuild   = "contract.build"
	SpanContractExtract = "contract.extract"
	SpanRender          = "contract.render"
)

// Span attribute keys.
const (
	AttrContractID   = "contract.id"
	AttrContractName = "contract.name"
	AttrStage        = "contract.stage"
	AttrStageFrom    = "contract.stage.from"
	AttrMetadataKeys = "contract.metadata.keys"
	AttrOutputFormat = "output.format"

	AttrErrorMessage = "error.message"
)

// Span event names, one per builder operation.
const (
	EventCreated   = "contract.created"
	EventAnnotated = "contract.annotated"
	EventValidated = "contract.validated"
	EventDeployed  = "contract.deployed"
	EventExtracted = "contract.extracted"
)
