package core

import (
	"errors"
	"testing"

	"github.com/venuktan/recommeder-system/pkg/utils"
)

func TestDomainErrorChecks(t *testing.T) {
	notFound := NewDomainError(ModuleData, ErrorCodeNotFound, "data: missing")
	if !IsNotFound(notFound) {
		t.Errorf("IsNotFound should match NOT_FOUND DomainError")
	}
	if IsNotSupported(notFound) {
		t.Errorf("IsNotSupported should not match NOT_FOUND")
	}
	if IsNotFound(errors.New("plain")) {
		t.Errorf("IsNotFound should not match plain errors")
	}
	if IsNotFound(nil) {
		t.Errorf("IsNotFound(nil) should be false")
	}
}

func TestIsStoreNotFound(t *testing.T) {
	if !IsStoreNotFound(ErrStoreNotFound) {
		t.Errorf("IsStoreNotFound(ErrStoreNotFound) should be true")
	}
	// 同 code 但不同模块的错误不算 store 缺失
	other := NewDomainError(ModuleData, ErrorCodeNotFound, "data: missing")
	if IsStoreNotFound(other) {
		t.Errorf("IsStoreNotFound should require store module")
	}
	if IsStoreNotFound(nil) {
		t.Errorf("IsStoreNotFound(nil) should be false")
	}
}

func TestItem_PutLabel(t *testing.T) {
	it := NewItem(1)
	it.PutLabel("src", utils.Label{Value: "a", Source: "recall"})
	it.PutLabel("src", utils.Label{Value: "b", Source: "rank"})

	got := it.Labels["src"]
	if got.Value != "a|b" || got.Source != "recall,rank" {
		t.Errorf("merged label = %v, want {a|b recall,rank}", got)
	}
}
