package gen

var (
	// FeatureJSONTags adds json struct tags next to the cql tags of
	// generated value types and entities.
	FeatureJSONTags = Feature{
		Name:        "jsontags",
		Stage:       Stable,
		Default:     false,
		Description: "Adds json struct tags to generated value types and entities",
	}

	// FeatureStringer generates String methods on value types and entities.
	FeatureStringer = Feature{
		Name:        "stringer",
		Stage:       Stable,
		Default:     true,
		Description: "Generates String methods on value types and entities",
	}

	// FeatureListByPartition generates a List method on data-access types
	// that reads all rows of a partition.
	FeatureListByPartition = Feature{
		Name:        "listbypartition",
		Stage:       Beta,
		Default:     true,
		Description: "Generates a List method reading every row of a partition",
	}

	// FeatureSchemaComments copies table comments into the doc comment of
	// the generated entity.
	FeatureSchemaComments = Feature{
		Name:        "schemacomments",
		Stage:       Experimental,
		Default:     false,
		Description: "Copies table comments into the doc comments of generated entities",
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureJSONTags,
		FeatureStringer,
		FeatureListByPartition,
		FeatureSchemaComments,
	}
)

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development, and actively being tested.
	Experimental

	// Alpha features are features whose initial development was finished,
	// but we expect breaking-changes to their output.
	Alpha

	// Beta features are Alpha features whose output is not expected to change.
	Beta

	// Stable features are Beta features that were running for a while.
	Stable
)

// String returns the name of the stage.
func (s FeatureStage) String() string {
	switch s {
	case Experimental:
		return "experimental"
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case Stable:
		return "stable"
	default:
		return "unknown"
	}
}

// A Feature of the cqlgen codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string
}

// FeatureByName returns the feature with the given name.
func FeatureByName(name string) (Feature, bool) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}
