//go:build linux && !noebiten

package surface

import (
	"errors"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// netWMStateAdd is the _NET_WM_STATE client message action that sets a
// state flag.
const netWMStateAdd = 1

// keepAbove asks an EWMH window manager to keep the active window above
// other windows. It needs an X11 display, so it fails under Wayland without
// XWayland or when DISPLAY is unset.
func keepAbove() error {
	conn, err := xgb.NewConn()
	if err != nil {
		return err
	}
	defer conn.Close()

	atoms := make(map[string]xproto.Atom)
	for _, name := range []string{"_NET_WM_STATE", "_NET_WM_STATE_ABOVE", "_NET_ACTIVE_WINDOW"} {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			return err
		}
		atoms[name] = reply.Atom
	}

	root := xproto.Setup(conn).DefaultScreen(conn).Root
	win, err := activeWindow(conn, root, atoms["_NET_ACTIVE_WINDOW"])
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   atoms["_NET_WM_STATE"],
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			netWMStateAdd, uint32(atoms["_NET_WM_STATE_ABOVE"]), 0, 1, 0,
		}),
	}
	mask := uint32(xproto.EventMaskSubstructureNotify | xproto.EventMaskSubstructureRedirect)
	return xproto.SendEventChecked(conn, false, root, mask, string(ev.Bytes())).Check()
}

// activeWindow reads _NET_ACTIVE_WINDOW from the root window and falls back
// to the input focus.
func activeWindow(conn *xgb.Conn, root xproto.Window, active xproto.Atom) (xproto.Window, error) {
	reply, err := xproto.GetProperty(conn, false, root, active, xproto.AtomWindow, 0, 1).Reply()
	if err == nil && reply != nil && len(reply.Value) >= 4 {
		if win := xproto.Window(xgb.Get32(reply.Value)); win != xproto.WindowNone {
			return win, nil
		}
	}

	focus, err := xproto.GetInputFocus(conn).Reply()
	if err != nil {
		return xproto.WindowNone, err
	}
	if focus.Focus == xproto.WindowNone {
		return xproto.WindowNone, errors.New("no active window")
	}
	return focus.Focus, nil
}
