package webaudio

import (
	"github.com/cwbudde/algo-webaudio/dsp/buffer"
)

// AudioListener is the position and orientation of the listener in 3D
// space. It is a graph node so that outputs can drive its params.
type AudioListener struct {
	*AudioNode

	PositionX, PositionY, PositionZ *AudioParam
	ForwardX, ForwardY, ForwardZ    *AudioParam
	UpX, UpY, UpZ                   *AudioParam
}

type listenerKernel struct{}

func (listenerKernel) process(*renderInfo, []*buffer.Quantum, []*buffer.Quantum) {}

func (c *BaseAudioContext) newListener() *AudioListener {
	n := c.newNode("AudioListener", 0, 0, 1, Explicit)
	n.kernel = listenerKernel{}
	l := &AudioListener{AudioNode: n}

	l.PositionX = n.newParam("positionX", 0, -mostPositive, mostPositive, ARate)
	l.PositionY = n.newParam("positionY", 0, -mostPositive, mostPositive, ARate)
	l.PositionZ = n.newParam("positionZ", 0, -mostPositive, mostPositive, ARate)
	l.ForwardX = n.newParam("forwardX", 0, -mostPositive, mostPositive, ARate)
	l.ForwardY = n.newParam("forwardY", 0, -mostPositive, mostPositive, ARate)
	l.ForwardZ = n.newParam("forwardZ", -1, -mostPositive, mostPositive, ARate)
	l.UpX = n.newParam("upX", 0, -mostPositive, mostPositive, ARate)
	l.UpY = n.newParam("upY", 1, -mostPositive, mostPositive, ARate)
	l.UpZ = n.newParam("upZ", 0, -mostPositive, mostPositive, ARate)

	c.register(n)
	return l
}

// SetPosition sets the position params at the current time.
func (l *AudioListener) SetPosition(x, y, z float64) error {
	return setAll([]*AudioParam{l.PositionX, l.PositionY, l.PositionZ}, x, y, z)
}

// SetOrientation sets the forward and up vectors at the current time.
func (l *AudioListener) SetOrientation(fx, fy, fz, ux, uy, uz float64) error {
	return setAll([]*AudioParam{l.ForwardX, l.ForwardY, l.ForwardZ, l.UpX, l.UpY, l.UpZ},
		fx, fy, fz, ux, uy, uz)
}

func setAll(params []*AudioParam, values ...float64) error {
	for i, p := range params {
		if err := p.SetValue(values[i]); err != nil {
			return err
		}
	}
	return nil
}
