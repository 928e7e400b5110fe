package codec

import (
	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/decoder"
)

// jsonCodec implements Codec over a generic JSON tree. Integers survive as
// int64 end to end; request and order ids do not fit in a float64 mantissa.
type jsonCodec struct {
	node any
}

// JSON returns a codec over an empty JSON object.
func JSON() Codec {
	return &jsonCodec{node: map[string]any{}}
}

func (c *jsonCodec) AddObject(name string) Codec {
	obj, ok := c.node.(map[string]any)
	if !ok {
		obj = map[string]any{}
		c.node = obj
	}

	child := map[string]any{}
	obj[name] = child
	return &jsonCodec{node: child}
}

func (c *jsonCodec) Object(name string) (Codec, bool) {
	obj, ok := c.node.(map[string]any)
	if !ok {
		return nil, false
	}

	v, ok := obj[name]
	if !ok || v == nil {
		return nil, false
	}
	return &jsonCodec{node: v}, true
}

func (c *jsonCodec) SetInt(v int64, name string) {
	if obj, ok := c.node.(map[string]any); ok {
		obj[name] = v
	}
}

func (c *jsonCodec) SetString(v string, name string) {
	if obj, ok := c.node.(map[string]any); ok {
		obj[name] = v
	}
}

func (c *jsonCodec) Int(name string, def int64) int64 {
	obj, ok := c.node.(map[string]any)
	if !ok {
		return def
	}

	switch v := obj[name].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return def
	}
}

func (c *jsonCodec) Str(name string, def string) string {
	obj, ok := c.node.(map[string]any)
	if !ok {
		return def
	}

	if s, ok := obj[name].(string); ok {
		return s
	}
	return def
}

func (c *jsonCodec) SelfStr(def string) string {
	if s, ok := c.node.(string); ok {
		return s
	}
	return def
}

func (c *jsonCodec) EachMember(visit func(name string, member Codec)) {
	obj, ok := c.node.(map[string]any)
	if !ok {
		return
	}

	for name, v := range obj {
		visit(name, &jsonCodec{node: v})
	}
}

func (c *jsonCodec) EachItem(name string, visit func(item Codec)) {
	obj, ok := c.node.(map[string]any)
	if !ok {
		return
	}

	items, ok := obj[name].([]any)
	if !ok {
		return
	}
	for _, v := range items {
		visit(&jsonCodec{node: v})
	}
}

func (c *jsonCodec) Text() ([]byte, error) {
	return sonic.ConfigStd.Marshal(c.node)
}

func (c *jsonCodec) FromText(data []byte) error {
	var node any
	d := decoder.NewDecoder(string(data))
	d.UseInt64()
	if err := d.Decode(&node); err != nil {
		return err
	}

	c.node = node
	return nil
}
