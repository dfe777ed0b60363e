// Package vtest provides testing helpers for code that renders virtual trees.
//
// A Harness wires a vdom.Session to an in-memory host.Graph through a
// host.Recorder, so a test can render trees and assert on both the exact
// Sink calls a pass issued and the HTML left behind.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.New(t)
//	    h.Render(t, vdom.Div(vdom.Text("0")))
//	    calls := h.Render(t, vdom.Div(vdom.Text("1")))
//	    vtest.ExpectCalls(t, calls,
//	        `ChildAt(#1, 0) = #4`,
//	        `CreateText("1") = #5`,
//	        `ReplaceChildAt(#4, 0, #5)`,
//	    )
//	    h.ExpectHTML(t, "<div>1</div>")
//	}
//
// # Fault Injection
//
// FailingSink makes the n-th call of an operation fail, which is how the
// host-failure paths of a render are exercised:
//
//	sink := vtest.FailOn(graph, vdom.OpAppend, 2, errBoom)
package vtest
