package membership

import (
	"github.com/m04kA/Sauna-BookingService/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor
