package costingrpc

import (
	"errors"
	"fmt"

	"costing"
	costingmsgpack "costing/msgpack"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

const (
	CodeOK            int32 = 0
	CodeNoFunc        int32 = -201
	CodeNoSuchFunc    int32 = -202
	CodeNoArg         int32 = -204
	CodeUnmarshal     int32 = -205
	CodeExecFunc      int32 = -206
	CodeMarshalResult int32 = -207
)

var (
	ErrReqHasNoFunc = errors.New("request has no function")
	ErrNoSuchFunc   = errors.New("no such function")
	ErrReqHasNoArg  = errors.New("request has no argument")
)

// Function names understood by Handler.
const (
	FuncConvert        = "Convert"
	FuncToBase         = "ToBase"
	FuncIngredientCost = "IngredientCost"
	FuncRecipeCost     = "RecipeCost"
	FuncSummarize      = "Summarize"
	FuncFormatQuantity = "FormatQuantity"
)

var ServerFuncs = []string{
	FuncConvert,
	FuncToBase,
	FuncIngredientCost,
	FuncRecipeCost,
	FuncSummarize,
	FuncFormatQuantity,
}

// errorNames lets a client turn a response back into the engine's sentinels.
var errorNames = map[string]error{
	"UnknownUnit":          costing.ErrUnknownUnit,
	"IncompatibleUnitKind": costing.ErrIncompatibleUnitKind,
	"MissingDensity":       costing.ErrMissingDensity,
	"DivisionByZero":       costing.ErrDivisionByZero,
	"InvalidYield":         costing.ErrInvalidYield,
	"UnknownCurrency":      costing.ErrUnknownCurrency,
	"NoSuchTier":           costing.ErrNoSuchTier,
	"NoFunc":               ErrReqHasNoFunc,
	"NoSuchFunc":           ErrNoSuchFunc,
	"NoArg":                ErrReqHasNoArg,
}

// ErrorName returns the wire name of the sentinel err wraps, or "" if none.
func ErrorName(err error) string {
	for name, sentinel := range errorNames {
		if errors.Is(err, sentinel) {
			return name
		}
	}
	return ""
}

// Handler answers costing requests. It holds no state and is safe for
// concurrent use.
type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{logger: logger}
}

// CreateRespPkt builds the response to request reqUUID.
func CreateRespPkt(reqUUID uuid.UUID, code int32, result []byte, err error) *Packet {
	body := map[string][]byte{}
	codeBytes, _ := msgpack.Marshal(code)
	body["code"] = codeBytes
	if result != nil {
		body["result"] = result
	}
	if err != nil {
		body["message"] = []byte(err.Error())
		if name := ErrorName(err); name != "" {
			body["error"] = []byte(name)
		}
	} else {
		body["message"] = []byte("ok")
	}
	return &Packet{UUID: reqUUID, Type: TypeResp, Body: body}
}

func contains(strs []string, v string) bool {
	for i := range strs {
		if strs[i] == v {
			return true
		}
	}
	return false
}

// ProcessPkt executes the function named in pkt and returns the response.
func (h *Handler) ProcessPkt(pkt *Packet) *Packet {
	// layer 0, check func
	funcBytes, ok := pkt.Body["function"]
	if !ok {
		return CreateRespPkt(pkt.UUID, CodeNoFunc, nil, ErrReqHasNoFunc)
	}
	funcStr := string(funcBytes)
	if !contains(ServerFuncs, funcStr) {
		return CreateRespPkt(pkt.UUID, CodeNoSuchFunc, nil, fmt.Errorf("%w: %q", ErrNoSuchFunc, funcStr))
	}

	// layer 1, check arg
	argBytes := pkt.Body["arg"]
	if len(argBytes) == 0 {
		return CreateRespPkt(pkt.UUID, CodeNoArg, nil, ErrReqHasNoArg)
	}

	// layer last
	result, code, err := h.exec(funcStr, argBytes)
	if err != nil {
		h.logger.Debug("request failed",
			zap.String("function", funcStr),
			zap.String("uuid", pkt.UUID.String()),
			zap.Int32("code", code),
			zap.Error(err))
		return CreateRespPkt(pkt.UUID, code, nil, err)
	}
	resultBytes, err := msgpack.Marshal(result)
	if err != nil {
		return CreateRespPkt(pkt.UUID, CodeMarshalResult, nil, err)
	}
	return CreateRespPkt(pkt.UUID, CodeOK, resultBytes, nil)
}

func (h *Handler) exec(funcStr string, arg []byte) (any, int32, error) {
	switch funcStr {
	case FuncConvert:
		var req costingmsgpack.ConvertRequest
		if err := msgpack.Unmarshal(arg, &req); err != nil {
			return nil, CodeUnmarshal, err
		}
		from, err := costing.ParseUnit(req.From)
		if err != nil {
			return nil, CodeExecFunc, err
		}
		to, err := costing.ParseUnit(req.To)
		if err != nil {
			return nil, CodeExecFunc, err
		}
		v, err := costing.Convert(req.Amount, from, to, req.DensityGPerMl)
		if err != nil {
			return nil, CodeExecFunc, err
		}
		return costingmsgpack.Quantity{Amount: v, Unit: string(to)}, CodeOK, nil

	case FuncToBase:
		var req costingmsgpack.Quantity
		if err := msgpack.Unmarshal(arg, &req); err != nil {
			return nil, CodeUnmarshal, err
		}
		unit, err := costing.ParseUnit(req.Unit)
		if err != nil {
			return nil, CodeExecFunc, err
		}
		q, err := costing.ToBase(req.Amount, unit)
		if err != nil {
			return nil, CodeExecFunc, err
		}
		return costingmsgpack.Quantity{Amount: q.Amount, Unit: string(q.Unit)}, CodeOK, nil

	case FuncIngredientCost:
		var req costingmsgpack.UsageCostRequest
		if err := msgpack.Unmarshal(arg, &req); err != nil {
			return nil, CodeUnmarshal, err
		}
		c, err := costing.IngredientUsageCost(costing.UsageCostInput{
			UsageQuantity: req.UsageQuantity,
			UsageUnit:     costingmsgpack.ToUnit(req.UsageUnit),
			Ingredient:    costingmsgpack.ToIngredient(&req.Ingredient),
		})
		if err != nil {
			return nil, CodeExecFunc, err
		}
		return costingmsgpack.Cost{Cost: c}, CodeOK, nil

	case FuncRecipeCost:
		var req []costingmsgpack.RecipeItem
		if err := msgpack.Unmarshal(arg, &req); err != nil {
			return nil, CodeUnmarshal, err
		}
		c, err := costing.RecipeCost(costingmsgpack.ToRecipeItems(req))
		if err != nil {
			return nil, CodeExecFunc, err
		}
		return costingmsgpack.Cost{Cost: c}, CodeOK, nil

	case FuncSummarize:
		var req costingmsgpack.Recipe
		if err := msgpack.Unmarshal(arg, &req); err != nil {
			return nil, CodeUnmarshal, err
		}
		s, err := costing.Summarize(costingmsgpack.ToRecipe(&req))
		if err != nil {
			return nil, CodeExecFunc, err
		}
		return costingmsgpack.NewSummary(s), CodeOK, nil

	case FuncFormatQuantity:
		var req costingmsgpack.Quantity
		if err := msgpack.Unmarshal(arg, &req); err != nil {
			return nil, CodeUnmarshal, err
		}
		q := costing.FormatQuantity(req.Amount, costingmsgpack.ToUnit(req.Unit))
		return costingmsgpack.Quantity{Amount: q.Amount, Unit: string(q.Unit)}, CodeOK, nil
	}
	return nil, CodeNoSuchFunc, ErrNoSuchFunc
}
