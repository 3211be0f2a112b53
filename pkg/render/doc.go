// Package render defines the compositing contracts shared by every
// compositor: the immutable Spec describing where and how text is drawn, the
// Compositor interface, artifact naming, the compositor Registry, and the text
// drawing and encoding helpers concrete compositors build on.
package render
