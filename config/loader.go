package config

import (
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"gopkg.in/yaml.v3"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/deploytypes"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/errors"
)

// descriptor is the subset of the project descriptor read by this package.
type descriptor struct {
	Service  serviceName `yaml:"service"`
	Provider struct {
		Stage     string `yaml:"stage"`
		Region    string `yaml:"region"`
		StackName string `yaml:"stackName"`
	} `yaml:"provider"`
	Custom struct {
		Assets yaml.Node `yaml:"assets"`
	} `yaml:"custom"`
}

// serviceName accepts both "service: name" and "service: {name: name}".
type serviceName string

func (s *serviceName) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		var named struct {
			Name string `yaml:"name"`
		}
		if err := value.Decode(&named); err != nil {
			return err
		}
		*s = serviceName(named.Name)
		return nil
	}

	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	*s = serviceName(name)
	return nil
}

type rawAssets struct {
	Auto              bool        `yaml:"auto"`
	ResolveReferences *bool       `yaml:"resolveReferences"`
	Verbose           bool        `yaml:"verbose"`
	UploadConcurrency *int        `yaml:"uploadConcurrency"`
	Targets           []rawTarget `yaml:"targets"`

	// Single target shape, used when Targets is absent.
	rawTarget `yaml:",inline"`
}

type rawTarget struct {
	Bucket rawBucket             `yaml:"bucket"`
	Prefix string                `yaml:"prefix"`
	ACL    deploytypes.ObjectACL `yaml:"acl"`
	Empty  bool                  `yaml:"empty"`
	Files  []rawGroup            `yaml:"files"`
}

type rawGroup struct {
	Source             string            `yaml:"source"`
	Globs              stringList        `yaml:"globs"`
	DefaultContentType string            `yaml:"defaultContentType"`
	SniffContentType   bool              `yaml:"sniffContentType"`
	Headers            map[string]string `yaml:"headers"`
}

// rawBucket is a bucket name or a {ref: LogicalId} mapping. A malformed
// entry decodes to an invalid spec so only its own target fails.
type rawBucket struct {
	spec deploytypes.BucketSpec
}

func (b *rawBucket) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Value == "" || value.Tag == "!!null" {
			b.spec = deploytypes.InvalidBucket(fmt.Sprintf("line %d: bucket name is empty", value.Line))
			return nil
		}
		b.spec = deploytypes.LiteralBucket(value.Value)
	case yaml.MappingNode:
		var ref map[string]string
		if err := value.Decode(&ref); err != nil {
			b.spec = deploytypes.InvalidBucket(
				fmt.Sprintf("line %d: bucket reference must map ref to a logical id", value.Line))
			return nil
		}
		logicalID := ref["ref"]
		if logicalID == "" {
			logicalID = ref["Ref"]
		}
		if logicalID == "" {
			b.spec = deploytypes.InvalidBucket(fmt.Sprintf("line %d: bucket reference needs a ref key", value.Line))
			return nil
		}
		b.spec = deploytypes.ReferenceBucket(logicalID)
	default:
		b.spec = deploytypes.InvalidBucket(
			fmt.Sprintf("line %d: bucket must be a name or a {ref: LogicalId} mapping", value.Line))
	}
	return nil
}

// stringList accepts a single string or a sequence of strings.
type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*l = stringList{value.Value}
		return nil
	}

	var items []string
	if err := value.Decode(&items); err != nil {
		return err
	}
	*l = items
	return nil
}

// Load reads and parses the descriptor at path.
func Load(filesystem billy.Filesystem, path string) (*Project, error) {
	data, err := util.ReadFile(filesystem, path)
	if err != nil {
		return nil, errors.Wrap("config", errors.ErrFilesystem, err).WithKey(path)
	}

	project, err := Parse(data)
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			return nil, e.WithKey(path)
		}
		return nil, err
	}
	return project, nil
}

// Parse decodes a descriptor and normalizes its assets section.
func Parse(data []byte) (*Project, error) {
	var doc descriptor
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap("config", errors.ErrInvalidConfig, err)
	}

	assets, err := normalizeAssets(&doc.Custom.Assets)
	if err != nil {
		return nil, err
	}

	project := &Project{
		Service: string(doc.Service),
		Stage:   doc.Provider.Stage,
		Region:  doc.Provider.Region,
		Stack:   doc.Provider.StackName,
		Assets:  assets,
	}
	if project.Stage == "" {
		project.Stage = DefaultStage
	}
	if project.Region == "" {
		project.Region = DefaultRegion
	}

	return project, nil
}

// ParseAssets normalizes an assets section given on its own.
func ParseAssets(data []byte) (*deploytypes.DeploymentConfig, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, errors.Wrap("config", errors.ErrInvalidConfig, err)
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		return normalizeAssets(node.Content[0])
	}
	return normalizeAssets(&node)
}

// normalizeAssets turns any accepted assets shape into a validated
// deployment configuration.
func normalizeAssets(node *yaml.Node) (*deploytypes.DeploymentConfig, error) {
	var raw rawAssets

	switch node.Kind {
	case 0:
		// No assets section.
	case yaml.ScalarNode:
		if node.Tag != "!!null" {
			return nil, errors.NewError("config", errors.ErrInvalidConfig).
				WithMessage(fmt.Sprintf("line %d: assets must be a mapping or a list of targets", node.Line))
		}
	case yaml.SequenceNode:
		if err := node.Decode(&raw.Targets); err != nil {
			return nil, errors.Wrap("config", errors.ErrInvalidConfig, err)
		}
	case yaml.MappingNode:
		if err := node.Decode(&raw); err != nil {
			return nil, errors.Wrap("config", errors.ErrInvalidConfig, err)
		}
		if raw.Targets == nil && hasKey(node, "bucket", "files") {
			raw.Targets = []rawTarget{raw.rawTarget}
		}
	default:
		return nil, errors.NewError("config", errors.ErrInvalidConfig).
			WithMessage(fmt.Sprintf("line %d: assets must be a mapping or a list of targets", node.Line))
	}

	cfg := &deploytypes.DeploymentConfig{
		Auto:              raw.Auto,
		ResolveReferences: true,
		Verbose:           raw.Verbose,
		UploadConcurrency: deploytypes.DefaultUploadConcurrency,
		Targets:           make([]deploytypes.AssetTarget, 0, len(raw.Targets)),
	}
	if raw.ResolveReferences != nil {
		cfg.ResolveReferences = *raw.ResolveReferences
	}
	if raw.UploadConcurrency != nil {
		cfg.UploadConcurrency = *raw.UploadConcurrency
	}

	for _, rt := range raw.Targets {
		target := deploytypes.AssetTarget{
			Bucket: rt.Bucket.spec,
			Prefix: rt.Prefix,
			ACL:    rt.ACL,
			Empty:  rt.Empty,
			Files:  make([]deploytypes.FileGroup, 0, len(rt.Files)),
		}
		if target.ACL == "" {
			target.ACL = deploytypes.DefaultACL
		}
		for _, rg := range rt.Files {
			target.Files = append(target.Files, deploytypes.FileGroup{
				Source:             rg.Source,
				Globs:              []string(rg.Globs),
				DefaultContentType: rg.DefaultContentType,
				SniffContentType:   rg.SniffContentType,
				Headers:            rg.Headers,
			})
		}
		cfg.Targets = append(cfg.Targets, target)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// hasKey reports whether a mapping node has any of keys.
func hasKey(node *yaml.Node, keys ...string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		for _, k := range keys {
			if node.Content[i].Value == k {
				return true
			}
		}
	}
	return false
}
