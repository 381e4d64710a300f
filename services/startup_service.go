package services

import (
	log "github.com/sirupsen/logrus"

	"github.com/applysink/applysink/bridge"
	"github.com/applysink/applysink/conf"
	"github.com/applysink/applysink/database"
	"github.com/applysink/applysink/providers"
	"github.com/applysink/applysink/providers/boards"
)

var (
	apply *Orchestrator
)

// ApplyService The process-wide orchestrator instance, wired at startup.
func ApplyService() *Orchestrator {
	return apply
}

// StartApplyService Builds the provider registry and the orchestrator. A provider
// failing validation here is a deployment defect and stops the process.
func StartApplyService() {
	registry := providers.NewRegistry()

	if err := registry.Register(
		"greenhouse",
		"Greenhouse",
		providers.Capabilities{Kind: providers.KindAPI, Flags: []string{}},
		boards.NewGreenhouse(conf.AppCfg.GreenhouseBoardToken),
	); err != nil {
		log.Fatalf("[StartApplyService] Registering greenhouse: %s", err)
	}

	if err := registry.Register(
		"headless",
		"Headless Browser",
		providers.Capabilities{Kind: providers.KindBrowser, Flags: []string{providers.FlagAutoApply}},
		boards.NewHeadless(conf.AppCfg.BrowserDriverPath),
	); err != nil {
		log.Fatalf("[StartApplyService] Registering headless: %s", err)
	}

	for _, info := range registry.All() {
		log.Infof("[StartApplyService] Registered provider '%s' (%s)", info.Name, info.Capabilities.Kind)
	}

	apply = NewOrchestrator(registry, bridge.NewBridge(conf.AppCfg.SessionBufferSize), database.Store{})
	apply.AllowAutoApply = conf.AppCfg.AllowAutoApply

	StartDispatch()
}

// StopApplyService Cancels live runs and waits for the workers to unwind.
func StopApplyService() {
	if apply == nil {
		return
	}

	log.Infoln("[StopApplyService] Stopping application runs ...")
	apply.Stop()
}

// Providers The registry snapshot for the web layer.
func Providers() []*providers.ProviderInfo {
	if apply == nil {
		return nil
	}
	return apply.registry.All()
}
