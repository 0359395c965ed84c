// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
//   - Store: token bucket por chave usando golang.org/x/time/rate
//   - WindowStore / RedisWindowStore: janela fixa em memória ou no Redis
//   - ChanPool: semáforo simples para limite de concorrência
//   - *StatsStore: estatísticas em memória, Redis ou Prometheus
package infra
