package c2module

import (
	"context"

	"github.com/davecgh/go-spew/spew"
	"github.com/xaionaro-go/c2module/logger"
	"github.com/xaionaro-go/c2module/types"
)

// QueryParam returns the current value of the parameter.
func (s *Session) QueryParam(
	ctx context.Context,
	index types.ParamIndex,
) (_ret types.Param, _err error) {
	ctx = s.withFields(ctx)
	logger.Tracef(ctx, "QueryParam(ctx, %s)", index)
	defer func() { logger.Tracef(ctx, "/QueryParam(ctx, %s): %s %v", index, spew.Sdump(_ret), _err) }()

	if err := s.checkClosed(); err != nil {
		return nil, err
	}
	params, err := s.intf.Query(ctx, []types.ParamIndex{index})
	if err != nil {
		return nil, s.componentError("query parameter", err)
	}
	if len(params) == 0 || params[0] == nil {
		return nil, s.componentError("query parameter", ErrParamNotFound{Index: index})
	}
	return params[0], nil
}

// SetParam applies the parameter; any per-parameter failure fails the call.
func (s *Session) SetParam(
	ctx context.Context,
	param types.Param,
) (_err error) {
	ctx = s.withFields(ctx)
	logger.Tracef(ctx, "SetParam(ctx, %s)", spew.Sdump(param))
	defer func() { logger.Tracef(ctx, "/SetParam(ctx): %v", _err) }()

	if err := s.checkClosed(); err != nil {
		return err
	}
	if err := s.config(ctx, param); err != nil {
		return s.componentError("set parameter", err)
	}
	return nil
}

func (s *Session) config(
	ctx context.Context,
	param types.Param,
) error {
	failures, err := s.intf.Config(ctx, []types.Param{param})
	if err != nil {
		return err
	}
	if len(failures) != 0 {
		return ErrSettingFailures{Failures: failures}
	}
	return nil
}
