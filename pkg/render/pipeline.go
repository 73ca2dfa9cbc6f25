package render

// PipelineID selects one of the precompiled pipelines. Its values match
// rendermode.Mode.
type PipelineID uint32

const (
	PipelineSolid PipelineID = iota
	PipelineWireframe
	numPipelines
)

// Topology is how indexed primitives are rasterized.
type Topology int

const (
	// TopologyFill fills triangles.
	TopologyFill Topology = iota
	// TopologyLines draws triangle edges.
	TopologyLines
)

// Pipeline is a fixed rasterization configuration.
type Pipeline struct {
	Label     string
	Topology  Topology
	CullBack  bool // Cull triangles that are clockwise on screen
	DepthTest bool
}

// pipelines are compiled once; frames pick one by index.
var pipelines = [numPipelines]Pipeline{
	PipelineSolid: {
		Label:     "solid",
		Topology:  TopologyFill,
		CullBack:  true,
		DepthTest: true,
	},
	PipelineWireframe: {
		Label:     "wireframe",
		Topology:  TopologyLines,
		CullBack:  false,
		DepthTest: false,
	},
}

// PipelineFor returns the configuration of a pipeline.
func PipelineFor(id PipelineID) (Pipeline, bool) {
	if id >= numPipelines {
		return Pipeline{}, false
	}
	return pipelines[id], true
}
