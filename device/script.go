package device

import (
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/ucboot/layout"
	"github.com/ezrec/ucboot/periph"
)

// Device byte order names.
const (
	EndianLittle = "little"
	EndianBig    = "big"
)

// Load evaluates a device description script from a file.
func Load(path string) (dev *Device, err error) {
	return load(path, nil)
}

// LoadSource evaluates a device description script from src (a string,
// byte slice, or reader); name is used for diagnostics only.
func LoadSource(name string, src any) (dev *Device, err error) {
	return load(name, src)
}

func load(name string, src any) (dev *Device, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}

	globals, err := starlark.ExecFileOptions(&opts, &thread, name, src, predeclared())
	if err != nil {
		err = &ErrScript{Key: name, Err: err}
		return
	}

	return fromGlobals(globals)
}

// predeclared returns the names available to every device script.
func predeclared() starlark.StringDict {
	return starlark.StringDict{
		"KB":     starlark.MakeInt(1024),
		"MB":     starlark.MakeInt(1024 * 1024),
		"region": starlark.NewBuiltin("region", makeRegion),
		"block":  starlark.NewBuiltin("block", makeBlock),
	}
}

// makeRegion is the region(base=, length=) builtin.
func makeRegion(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var base, length starlark.Value
	err := starlark.UnpackArgs(b.Name(), args, kwargs, "base", &base, "length", &length)
	if err != nil {
		return nil, err
	}

	dict := starlark.NewDict(2)
	if err = dict.SetKey(starlark.String("base"), base); err != nil {
		return nil, err
	}
	if err = dict.SetKey(starlark.String("length"), length); err != nil {
		return nil, err
	}

	return dict, nil
}

// makeBlock is the block(name=, base=, stride=, banks=, regs=) builtin.
func makeBlock(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name starlark.Value
	var base, stride, banks starlark.Value
	var regs *starlark.Dict
	err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"name", &name, "base", &base, "stride", &stride, "banks", &banks, "regs", &regs)
	if err != nil {
		return nil, err
	}

	dict := starlark.NewDict(5)
	pairs := []struct {
		key   string
		value starlark.Value
	}{
		{"name", name},
		{"base", base},
		{"stride", stride},
		{"banks", banks},
		{"regs", regs},
	}
	for _, pair := range pairs {
		if err = dict.SetKey(starlark.String(pair.key), pair.value); err != nil {
			return nil, err
		}
	}

	return dict, nil
}

// fromGlobals converts the script's global assignments into a Device.
func fromGlobals(globals starlark.StringDict) (dev *Device, err error) {
	dev = &Device{Endian: EndianLittle}

	value, err := valueAt(globals, "name")
	if err != nil {
		return nil, err
	}
	dev.Name, err = stringOf("name", value)
	if err != nil {
		return nil, err
	}

	if value, ok := globals["endian"]; ok {
		dev.Endian, err = stringOf("endian", value)
		if err != nil {
			return nil, err
		}
		if dev.Endian != EndianLittle && dev.Endian != EndianBig {
			return nil, ErrEndian
		}
	}

	dev.Flash, err = regionAt(globals, "flash", RegionFlash, layout.PermRead|layout.PermExec)
	if err != nil {
		return nil, err
	}
	dev.RAM, err = regionAt(globals, "ram", RegionRAM, layout.PermRead|layout.PermWrite|layout.PermExec)
	if err != nil {
		return nil, err
	}

	value, err = valueAt(globals, "interrupts")
	if err != nil {
		return nil, err
	}
	irq, err := uint32Of("interrupts", value)
	if err != nil {
		return nil, err
	}
	dev.Interrupts = int(irq)

	if value, ok := globals["blocks"]; ok {
		dev.Blocks, err = blocksOf(value)
		if err != nil {
			return nil, err
		}
	}

	return
}

func valueAt(globals starlark.StringDict, key string) (value starlark.Value, err error) {
	value, ok := globals[key]
	if !ok {
		err = ErrScriptMissing(key)
	}
	return
}

func stringOf(key string, value starlark.Value) (text string, err error) {
	st, ok := value.(starlark.String)
	if !ok {
		err = ErrScriptValue(key)
		return
	}

	text = string(st)
	return
}

func uint32Of(key string, value starlark.Value) (u32 uint32, err error) {
	st, ok := value.(starlark.Int)
	if !ok {
		err = ErrScriptValue(key)
		return
	}

	u64, ok := st.Uint64()
	if !ok || u64 > 0xffffffff {
		err = ErrScriptValue(key)
		return
	}

	u32 = uint32(u64)
	return
}

func dictField(key string, dict *starlark.Dict, field string) (value starlark.Value, err error) {
	value, ok, err := dict.Get(starlark.String(field))
	if err == nil && !ok {
		err = ErrScriptMissing(key + "." + field)
	}
	return
}

func regionAt(globals starlark.StringDict, key string, name string, perm layout.Perm) (region layout.Region, err error) {
	value, err := valueAt(globals, key)
	if err != nil {
		return
	}

	dict, ok := value.(*starlark.Dict)
	if !ok {
		err = ErrScriptValue(key)
		return
	}

	region.Name = name
	region.Perm = perm

	value, err = dictField(key, dict, "base")
	if err != nil {
		return
	}
	region.Base, err = uint32Of(key+".base", value)
	if err != nil {
		return
	}

	value, err = dictField(key, dict, "length")
	if err != nil {
		return
	}
	region.Length, err = uint32Of(key+".length", value)
	return
}

func blocksOf(value starlark.Value) (blocks []periph.Block, err error) {
	list, ok := value.(*starlark.List)
	if !ok {
		err = ErrScriptValue("blocks")
		return
	}

	for n := range list.Len() {
		var block periph.Block
		block, err = blockOf(list.Index(n))
		if err != nil {
			return
		}
		blocks = append(blocks, block)
	}

	return
}

func blockOf(value starlark.Value) (block periph.Block, err error) {
	dict, ok := value.(*starlark.Dict)
	if !ok {
		err = ErrScriptValue("blocks[]")
		return
	}

	field, err := dictField("block", dict, "name")
	if err != nil {
		return
	}
	block.Name, err = stringOf("block.name", field)
	if err != nil {
		return
	}

	key := "block " + block.Name

	fields := []struct {
		name string
		into *uint32
	}{
		{"base", &block.Base},
		{"stride", &block.Stride},
		{"banks", &block.Banks},
	}
	for _, entry := range fields {
		field, err = dictField(key, dict, entry.name)
		if err != nil {
			return
		}
		*entry.into, err = uint32Of(key+"."+entry.name, field)
		if err != nil {
			return
		}
	}

	field, err = dictField(key, dict, "regs")
	if err != nil {
		return
	}
	regs, ok := field.(*starlark.Dict)
	if !ok {
		err = ErrScriptValue(key + ".regs")
		return
	}

	for _, item := range regs.Items() {
		var reg periph.RegDef
		reg.Name, err = stringOf(key+".regs key", item[0])
		if err != nil {
			return
		}
		reg.Offset, err = uint32Of(key+".regs."+reg.Name, item[1])
		if err != nil {
			return
		}
		block.Regs = append(block.Regs, reg)
	}

	return
}
