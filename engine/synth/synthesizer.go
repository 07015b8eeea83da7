package synth

import (
	"context"
	"fmt"

	"github.com/agentcrate/agentcrate/engine/layer"
	"github.com/agentcrate/agentcrate/engine/layer/definition"
	"github.com/agentcrate/agentcrate/engine/provider"
	"github.com/agentcrate/agentcrate/pkg/document"
	"github.com/agentcrate/agentcrate/pkg/logger"
	"github.com/agentcrate/agentcrate/pkg/state"
)

// Synthesizer folds the three configuration layers into the runtime document
// under the fixed per-domain policy table, classifies providers, and writes
// the result back to the persisted store.
type Synthesizer struct {
	registry   *definition.Registry
	classifier *provider.Classifier
	store      *state.Store
}

// New wires a synthesizer from its collaborators.
func New(
	registry *definition.Registry,
	classifier *provider.Classifier,
	store *state.Store,
) *Synthesizer {
	return &Synthesizer{registry: registry, classifier: classifier, store: store}
}

// Preview folds the layers and classifies providers without persisting the
// result. Used by inspection commands; Synthesize is Preview plus the
// write-back.
func (s *Synthesizer) Preview(
	_ context.Context,
	layers *layer.Layers,
) (document.Map, *provider.Classification, error) {
	result, err := s.fold(layers)
	if err != nil {
		return nil, nil, err
	}
	classification, err := s.classifier.Classify()
	if err != nil {
		return nil, nil, err
	}
	s.applyProviders(result, classification)
	return result, classification, nil
}

// Synthesize produces the runtime document. Precedence is fixed:
// custom < persisted < env. Domains are independent; only the policy table
// governs how the env layer lands on each subtree. The result is written
// back to the persisted store so the next run's persisted layer (and the
// agent's own tooling) see this run's merged view.
func (s *Synthesizer) Synthesize(
	ctx context.Context,
	layers *layer.Layers,
) (document.Map, *provider.Classification, error) {
	log := logger.FromContext(ctx)

	result, classification, err := s.Preview(ctx, layers)
	if err != nil {
		return nil, nil, err
	}

	if err := s.store.Write(result); err != nil {
		return nil, nil, fmt.Errorf("persist runtime config: %w", err)
	}
	log.Info("runtime configuration synthesized",
		"path", s.store.Path(),
		"default_provider", classification.Default,
		"eligible_providers", len(classification.Eligible))
	return result, classification, nil
}

// fold applies the domain policies. The env layer is first stripped of any
// values under json-only domains: the registry already refuses to define
// variables there, so this prune is a guard against defects, not a feature.
func (s *Synthesizer) fold(layers *layer.Layers) (document.Map, error) {
	env, ok := document.Clone(layers.Env).(document.Map)
	if !ok {
		return nil, fmt.Errorf("env layer is not a document")
	}
	for _, domain := range s.registry.Domains() {
		if domain.Policy == definition.PolicyJSONOnly {
			document.Delete(env, domain.Path)
		}
	}

	base := document.Merge(layers.Custom, layers.Persisted)
	merged, ok := document.Merge(base, env).(document.Map)
	if !ok {
		return nil, fmt.Errorf("merged configuration is not a document")
	}

	// Overwrite domains: when env touches the domain at all, its subtree
	// replaces the merged one verbatim.
	for _, domain := range s.registry.Domains() {
		if domain.Policy != definition.PolicyOverwrite {
			continue
		}
		envSub, touched := document.Get(env, domain.Path)
		if !touched {
			continue
		}
		document.Set(merged, domain.Path, document.Clone(envSub))
	}
	return merged, nil
}

// applyProviders rewrites the models.providers region from the
// classification. The env scan is the sole author of catalog entries: any
// cataloged provider's entry that the classification does not carry this run
// is removed, whether built-in (the agent auto-detects those from their
// API-key variable; a document entry would be rejected downstream for
// missing endpoint fields) or a custom provider whose enabling variable has
// since been unset — its descriptor, API key included, must not outlive the
// variables that produced it. Entries outside the catalog are deployer
// authored and left alone. The default provider lands in models.default.
func (s *Synthesizer) applyProviders(doc document.Map, classification *provider.Classification) {
	if providers, ok := document.Get(doc, "models.providers"); ok {
		if providersMap, ok := providers.(document.Map); ok {
			for name := range providersMap {
				spec, cataloged := provider.CatalogSpec(provider.Name(name))
				if !cataloged {
					continue
				}
				if _, live := classification.Entries[spec.Name]; spec.Builtin || !live {
					delete(providersMap, name)
				}
			}
		}
	}
	for name, descriptor := range classification.Entries {
		document.Set(doc, "models.providers."+string(name), descriptorNode(descriptor))
	}
	document.Set(doc, "models.default", document.String(classification.Default))
}

func descriptorNode(d provider.Descriptor) document.Map {
	models := make(document.Seq, 0, len(d.Models))
	for _, model := range d.Models {
		models = append(models, document.String(model))
	}
	return document.Map{
		"apiType": document.String(d.APIType),
		"baseUrl": document.String(d.BaseURL),
		"apiKey":  document.String(d.APIKey),
		"models":  models,
	}
}
