package hierarchy

import (
	"fmt"

	"github.com/shntn/hdlproto/signal"
)

// ModportProto is declared on an Interface module: a named collection
// of (port name -> direction) pairs over that interface's own
// signals (spec §3 Interface & Modport).
type ModportProto struct {
	iface *Module
	name  string
	dirs  []modportEntry
}

type modportEntry struct {
	port string
	dir  signal.Direction
}

// Modport starts a new modport declaration on an interface module.
func (m *Module) Modport(name string) *ModportProto {
	return &ModportProto{iface: m, name: name}
}

// Dir adds one port direction to the modport, chainable.
func (mp *ModportProto) Dir(port string, dir signal.Direction) *ModportProto {
	mp.dirs = append(mp.dirs, modportEntry{port: port, dir: dir})
	return mp
}

// ModportInstance is a per-consumer deep copy of a ModportProto: its
// aliases carry the consuming module's scope and are named
// "<modport_attr>.<port_name>" (spec §4.3 step 3).
type ModportInstance struct {
	name  string
	iface *Module
	ports map[string]signal.Signaler
}

func (mi *ModportInstance) getAttr(name string) (any, bool) {
	v, ok := mi.ports[name]
	return v, ok
}

// Port returns the named port's alias from this instance.
func (mi *ModportInstance) Port(name string) (signal.Signaler, bool) {
	v, ok := mi.ports[name]
	return v, ok
}

// UseModport copies proto's ports into consumer-scoped aliases owned
// by m, attached under attrName (spec §3: "Modports are copied, not
// shared, per consumer").
func (m *Module) UseModport(attrName string, proto *ModportProto) (*ModportInstance, error) {
	inst := &ModportInstance{name: attrName, iface: proto.iface, ports: map[string]signal.Signaler{}}
	for _, e := range proto.dirs {
		target, ok := proto.iface.attrs[e.port]
		if !ok {
			return nil, fmt.Errorf("hierarchy: modport %q references unknown signal %q on interface %q", proto.name, e.port, proto.iface.name)
		}
		targetSig, ok := target.(signal.Signaler)
		if !ok {
			return nil, fmt.Errorf("hierarchy: modport %q port %q does not name a signal on interface %q", proto.name, e.port, proto.iface.name)
		}
		al, err := signal.NewAlias(e.port, e.dir, targetSig)
		if err != nil {
			return nil, err
		}
		inst.ports[e.port] = al
		m.localNames[al] = fmt.Sprintf("%s.%s", attrName, e.port)
	}
	if err := m.setAttr(attrName, inst); err != nil {
		return nil, err
	}
	m.modports = append(m.modports, inst)
	return inst, nil
}
