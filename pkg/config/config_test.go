package config

import "testing"

func TestASCIIPrintableAlphabet(t *testing.T) {
	alphabet := ASCIIPrintableAlphabet()
	if len(alphabet) != 0x7f-0x20 {
		t.Fatalf("len(ASCIIPrintableAlphabet()) = %d, want %d", len(alphabet), 0x7f-0x20)
	}
	if alphabet[0] != ' ' {
		t.Errorf("first rune = %q, want space", alphabet[0])
	}
	if alphabet[len(alphabet)-1] != '~' {
		t.Errorf("last rune = %q, want ~", alphabet[len(alphabet)-1])
	}
}

func TestASCIIPrintableAlphabetSet(t *testing.T) {
	set := ASCIIPrintableAlphabetSet()
	if _, ok := set['a']; !ok {
		t.Error("set missing 'a'")
	}
	if _, ok := set['\n']; ok {
		t.Error("set contains newline, want excluded (not printable)")
	}
	if len(set) != len(ASCIIPrintableAlphabet()) {
		t.Errorf("len(set) = %d, want %d", len(set), len(ASCIIPrintableAlphabet()))
	}
}

func TestDefaultRuleConfig(t *testing.T) {
	cfg := DefaultRuleConfig()
	if cfg.AllowDirectNextInput {
		t.Error("DefaultRuleConfig().AllowDirectNextInput = true, want false")
	}
	if cfg.MaxEntries != 0 {
		t.Errorf("DefaultRuleConfig().MaxEntries = %d, want 0 (unlimited)", cfg.MaxEntries)
	}
	if len(cfg.DirectInputtable) == 0 {
		t.Error("DefaultRuleConfig().DirectInputtable is empty")
	}
}

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig()
	if cfg.Address == "" {
		t.Error("DefaultServerConfig().Address is empty")
	}
	if cfg.AutomatonTTL <= 0 {
		t.Error("DefaultServerConfig().AutomatonTTL must be positive")
	}
	if cfg.MaxRequestBodySize <= 0 {
		t.Error("DefaultServerConfig().MaxRequestBodySize must be positive")
	}
}

func TestDefaultRuntimeConfig(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	if cfg.MaxDisplayStringLength <= 0 {
		t.Error("DefaultRuntimeConfig().MaxDisplayStringLength must be positive")
	}
	if cfg.MaxBuildDuration <= 0 {
		t.Error("DefaultRuntimeConfig().MaxBuildDuration must be positive")
	}
}
