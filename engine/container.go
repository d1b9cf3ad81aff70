package engine

/*
#include "bridge.h"
*/
import "C"

import (
	"unsafe"

	"github.com/wippyai/qpdf-go/errors"
)

func (c *Context) ArrayLen(h Handle) int {
	return query(c, func(p C.qpdf_data) int {
		return int(C.qpdf_oh_get_array_n_items(p, C.qpdf_oh(h)))
	})
}

// ArrayItem returns the element at i. The caller checks bounds.
func (c *Context) ArrayItem(h Handle, i int) (Handle, error) {
	return call(c, errors.PhaseObject, func(p C.qpdf_data) Handle {
		return Handle(C.qpdf_oh_get_array_item(p, C.qpdf_oh(h), C.int(i)))
	})
}

func (c *Context) SetArrayItem(h Handle, i int, v Handle) error {
	return exec(c, errors.PhaseObject, func(p C.qpdf_data) {
		C.qpdf_oh_set_array_item(p, C.qpdf_oh(h), C.int(i), C.qpdf_oh(v))
	})
}

func (c *Context) InsertItem(h Handle, i int, v Handle) error {
	return exec(c, errors.PhaseObject, func(p C.qpdf_data) {
		C.qpdf_oh_insert_item(p, C.qpdf_oh(h), C.int(i), C.qpdf_oh(v))
	})
}

func (c *Context) AppendItem(h Handle, v Handle) error {
	return exec(c, errors.PhaseObject, func(p C.qpdf_data) {
		C.qpdf_oh_append_item(p, C.qpdf_oh(h), C.qpdf_oh(v))
	})
}

func (c *Context) EraseItem(h Handle, i int) error {
	return exec(c, errors.PhaseObject, func(p C.qpdf_data) {
		C.qpdf_oh_erase_item(p, C.qpdf_oh(h), C.int(i))
	})
}

// Keys lists a dictionary's keys in engine order. The engine's key
// iterator is per-document state, so the whole walk runs under one lock.
func (c *Context) Keys(h Handle) ([]string, error) {
	return call(c, errors.PhaseObject, func(p C.qpdf_data) []string {
		var keys []string
		C.qpdf_oh_begin_dict_key_iter(p, C.qpdf_oh(h))
		for C.qpdf_oh_dict_more_keys(p) != 0 {
			keys = append(keys, goString(C.qpdf_oh_dict_next_key(p)))
		}
		return keys
	})
}

func (c *Context) HasKey(h Handle, key string) bool {
	ckey, err := cstring(errors.PhaseObject, key)
	if err != nil {
		return false
	}
	defer C.free(unsafe.Pointer(ckey))

	return query(c, func(p C.qpdf_data) bool {
		return C.qpdf_oh_has_key(p, C.qpdf_oh(h), ckey) != 0
	})
}

// Key returns the value under key, or a null handle if it is absent.
func (c *Context) Key(h Handle, key string) (Handle, error) {
	ckey, err := cstring(errors.PhaseObject, key)
	if err != nil {
		return 0, err
	}
	defer C.free(unsafe.Pointer(ckey))

	return call(c, errors.PhaseObject, func(p C.qpdf_data) Handle {
		return Handle(C.qpdf_oh_get_key(p, C.qpdf_oh(h), ckey))
	})
}

func (c *Context) ReplaceKey(h Handle, key string, v Handle) error {
	ckey, err := cstring(errors.PhaseObject, key)
	if err != nil {
		return err
	}
	defer C.free(unsafe.Pointer(ckey))

	return exec(c, errors.PhaseObject, func(p C.qpdf_data) {
		C.qpdf_oh_replace_key(p, C.qpdf_oh(h), ckey, C.qpdf_oh(v))
	})
}

func (c *Context) RemoveKey(h Handle, key string) error {
	ckey, err := cstring(errors.PhaseObject, key)
	if err != nil {
		return err
	}
	defer C.free(unsafe.Pointer(ckey))

	return exec(c, errors.PhaseObject, func(p C.qpdf_data) {
		C.qpdf_oh_remove_key(p, C.qpdf_oh(h), ckey)
	})
}
