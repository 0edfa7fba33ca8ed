package horoscopeApi

// horoscopeResponse ответ /api/v1/get-horoscope/{period}.
// Дата приходит в поле date, week или month в зависимости от периода.
type horoscopeResponse struct {
	Success *bool `json:"success"`
	Status  int   `json:"status"`
	Data    *struct {
		Date          string `json:"date"`
		Week          string `json:"week"`
		Month         string `json:"month"`
		HoroscopeData string `json:"horoscope_data"`
	} `json:"data"`
}
