package core

import (
	"pkdindustries/gptrelay/internal/llm"
	"pkdindustries/gptrelay/internal/settings"
)

type SystemImpl struct {
	Settings  settings.Store
	Completer llm.Completer
}

var _ System = (*SystemImpl)(nil)

func (s *SystemImpl) GetSettings() settings.Store {
	return s.Settings
}

func (s *SystemImpl) GetCompleter() llm.Completer {
	return s.Completer
}
